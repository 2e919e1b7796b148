package usecases

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/ports"
	"github.com/samirrijal/c2cexplorer/internal/pkg/logging"
	"github.com/samirrijal/c2cexplorer/internal/pkg/metrics"
)

var tracer = otel.Tracer("github.com/samirrijal/c2cexplorer/internal/core/usecases")

// QueryResolver turns list options into upstream calls, trying the selected
// areas first and the region bounding box second.
type QueryResolver struct {
	source ports.RouteSource
	areas  *AreaRegistry
	bbox   string
}

// NewQueryResolver creates a resolver. bbox is the projected region used when
// area filtering is skipped or falls back.
func NewQueryResolver(source ports.RouteSource, areas *AreaRegistry, bbox string) *QueryResolver {
	if areas == nil {
		areas = DefaultAreaRegistry()
	}
	return &QueryResolver{source: source, areas: areas, bbox: bbox}
}

// Areas returns the registry the resolver was built with.
func (r *QueryResolver) Areas() *AreaRegistry {
	return r.areas
}

type attempt struct {
	page     *domain.RoutePage
	params   domain.ListParams
	strategy domain.Strategy
}

// Resolve runs at most two sequential upstream calls and reports which
// geographic filter produced the returned page.
func (r *QueryResolver) Resolve(ctx context.Context, opts domain.ListOptions) (*domain.ResolvedResult, error) {
	base := baseParams(opts)
	areaIDs := NormalizeAreaIDs(opts.Areas)
	if len(areaIDs) == 0 {
		areaIDs = nil
	}

	fallbackWhenEmpty := areaIDs != nil && base.Query == ""
	if opts.FallbackWhenEmpty != nil {
		fallbackWhenEmpty = *opts.FallbackWhenEmpty
	}

	ctx, span := tracer.Start(ctx, "QueryResolver.Resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", base.Query),
		attribute.String("search.activities", base.Activities),
		attribute.StringSlice("search.areas", areaIDs),
		attribute.Int("search.limit", base.Limit),
		attribute.Int("search.offset", base.Offset),
	)

	var steps []Step[attempt]
	if areaIDs != nil {
		params := base
		params.AreaIDs = areaIDs
		steps = append(steps, Step[attempt]{
			Name: string(domain.StrategyAreas),
			Run:  r.fetch(params, domain.StrategyAreas),
			Accept: func(a attempt) bool {
				if a.page.Total > 0 || !opts.FallbackToBbox || !fallbackWhenEmpty {
					return true
				}
				metrics.AreaFallbacks.WithLabelValues("empty").Inc()
				return false
			},
			Recover: opts.FallbackToBbox,
			OnRecover: func(err error) {
				metrics.AreaFallbacks.WithLabelValues("error").Inc()
				logging.FromContext(ctx).Warn("area lookup failed, falling back to bbox",
					"areas", strings.Join(areaIDs, ","), "error", err)
			},
		})
	}
	if areaIDs == nil || opts.FallbackToBbox {
		params := base
		params.BBox = r.bbox
		steps = append(steps, Step[attempt]{
			Name: string(domain.StrategyBBox),
			Run:  r.fetch(params, domain.StrategyBBox),
		})
	}

	res, _, err := FirstAccepted(ctx, steps)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("search.strategy", string(res.strategy)),
		attribute.Int("search.total", res.page.Total),
	)
	metrics.Resolutions.WithLabelValues(string(res.strategy)).Inc()

	return newResolvedResult(res, areaIDs), nil
}

func (r *QueryResolver) fetch(params domain.ListParams, strategy domain.Strategy) func(context.Context) (attempt, error) {
	return func(ctx context.Context) (attempt, error) {
		page, err := r.source.ListRoutes(ctx, params)
		if err != nil {
			return attempt{}, fmt.Errorf("list routes by %s: %w", strategy, err)
		}
		if page == nil {
			page = &domain.RoutePage{}
		}
		return attempt{page: page, params: params, strategy: strategy}, nil
	}
}

func baseParams(opts domain.ListOptions) domain.ListParams {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	act := strings.TrimSpace(opts.Activities)
	if act == "" {
		act = DefaultActivities
	}
	return domain.ListParams{
		Limit:      limit,
		Offset:     SnapOffset(opts.Offset, limit),
		Activities: act,
		Query:      strings.TrimSpace(opts.Query),
	}
}

func newResolvedResult(a attempt, areaIDs []string) *domain.ResolvedResult {
	docs := make([]domain.Route, len(a.page.Documents))
	copy(docs, a.page.Documents)

	var ids []string
	if areaIDs != nil {
		ids = make([]string, len(areaIDs))
		copy(ids, areaIDs)
	}

	return &domain.ResolvedResult{
		Documents: docs,
		Total:     a.page.Total,
		Limit:     a.params.Limit,
		Offset:    a.params.Offset,
		Strategy:  a.strategy,
		AreaIDs:   ids,
	}
}
