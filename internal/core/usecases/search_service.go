package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/ports"
	"github.com/samirrijal/c2cexplorer/internal/pkg/logging"
	"github.com/samirrijal/c2cexplorer/internal/pkg/metrics"
)

const (
	areaFallbackMessage = "Area lookup returned no results; falling back to legacy map bounds."
	emptyMessage        = "No routes found for the current filters."
	publishTimeout      = 2 * time.Second
)

// SearchService runs a resolution and, when a text query matches nothing,
// retries with a relaxed single-word query.
type SearchService struct {
	resolver *QueryResolver
	events   ports.EventPublisher
}

// NewSearchService creates a new SearchService. events may be nil.
func NewSearchService(resolver *QueryResolver, events ports.EventPublisher) *SearchService {
	return &SearchService{resolver: resolver, events: events}
}

// Areas returns the area catalog used for searches.
func (s *SearchService) Areas() *AreaRegistry {
	return s.resolver.Areas()
}

// DefaultPolicy is the fallback policy of the route listing.
func DefaultPolicy() domain.SearchPolicy {
	return domain.SearchPolicy{FallbackToBbox: true}
}

// Search resolves req. A zero-result text query is retried with a fallback
// word, first at the requested offset and then, if that offset is not the
// first page, at offset 0. The first relaxed attempt with matches wins.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest, policy domain.SearchPolicy) (*domain.SearchOutcome, error) {
	whenEmpty := req.Query == ""
	if policy.FallbackWhenEmpty != nil {
		whenEmpty = *policy.FallbackWhenEmpty
	}

	result, err := s.resolver.Resolve(ctx, s.listOptions(req, req.Query, req.Offset, policy.FallbackToBbox, whenEmpty))
	if err != nil {
		return nil, err
	}

	outcome := &domain.SearchOutcome{Request: req, Result: result}

	if req.Query != "" && result.Total == 0 {
		fallback := DeriveFallbackQuery(req.Query)
		if fallback != "" && fallback != req.Query {
			relaxed, err := s.relax(ctx, req, fallback, policy.FallbackToBbox)
			if err != nil {
				return nil, err
			}
			if relaxed != nil {
				outcome.Result = relaxed
				outcome.FallbackQuery = fallback
				metrics.QueryRelaxations.WithLabelValues("matched").Inc()
			} else {
				metrics.QueryRelaxations.WithLabelValues("empty").Inc()
			}
		}
	}

	outcome.Notices = noticesFor(outcome)
	outcome.Window = pageWindow(outcome.Result, req.Limit)

	s.publish(ctx, outcome)
	return outcome, nil
}

func (s *SearchService) relax(ctx context.Context, req domain.SearchRequest, fallback string, toBbox bool) (*domain.ResolvedResult, error) {
	run := func(offset int) func(context.Context) (*domain.ResolvedResult, error) {
		return func(ctx context.Context) (*domain.ResolvedResult, error) {
			return s.resolver.Resolve(ctx, s.listOptions(req, fallback, offset, toBbox, false))
		}
	}
	hasMatches := func(r *domain.ResolvedResult) bool { return r.Total > 0 }

	steps := []Step[*domain.ResolvedResult]{
		{Name: "relaxed", Run: run(req.Offset), Accept: hasMatches},
	}
	if req.Offset > 0 {
		steps = append(steps, Step[*domain.ResolvedResult]{
			Name: "relaxed_first_page", Run: run(0), Accept: hasMatches,
		})
	}

	res, idx, err := FirstAccepted(ctx, steps)
	if err != nil {
		return nil, fmt.Errorf("relaxed search %q: %w", fallback, err)
	}
	if idx < 0 {
		return nil, nil
	}
	logging.FromContext(ctx).Debug("relaxed query matched",
		"query", req.Query, "fallback", fallback, "step", steps[idx].Name, "total", res.Total)
	return res, nil
}

func (s *SearchService) listOptions(req domain.SearchRequest, query string, offset int, toBbox, whenEmpty bool) domain.ListOptions {
	return domain.ListOptions{
		Query:             query,
		Activities:        req.Activities,
		Limit:             req.Limit,
		Offset:            offset,
		Areas:             req.AreaIDs,
		FallbackToBbox:    toBbox,
		FallbackWhenEmpty: &whenEmpty,
	}
}

func (s *SearchService) publish(ctx context.Context, o *domain.SearchOutcome) {
	if s.events == nil {
		return
	}
	event := &domain.SearchEvent{
		Query:         o.Request.Query,
		FallbackQuery: o.FallbackQuery,
		Activities:    o.Request.Activities,
		AreaIDs:       o.Result.AreaIDs,
		Strategy:      o.Result.Strategy,
		Total:         o.Result.Total,
		Relaxed:       o.Relaxed(),
	}
	logger := logging.FromContext(ctx)

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.events.PublishSearchEvent(pctx, event); err != nil {
			logger.Warn("publish search event", "error", err)
		}
	}()
}

func noticesFor(o *domain.SearchOutcome) []domain.Notice {
	notices := []domain.Notice{}
	if o.Relaxed() {
		notices = append(notices, domain.Notice{
			Kind:    domain.NoticeQueryRelaxed,
			Message: fmt.Sprintf("No exact matches for %q. Showing results for %q.", o.Request.Query, o.FallbackQuery),
		})
	}
	if o.Result.AreaFallback() {
		notices = append(notices, domain.Notice{Kind: domain.NoticeAreaFallback, Message: areaFallbackMessage})
	}
	if o.Result.Total == 0 {
		notices = append(notices, domain.Notice{Kind: domain.NoticeEmpty, Message: emptyMessage})
	}
	return notices
}

func pageWindow(r *domain.ResolvedResult, limit int) domain.PageWindow {
	if limit <= 0 {
		limit = r.Limit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := r.Offset
	shown := len(r.Documents)

	w := domain.PageWindow{
		Offset:     offset,
		Limit:      limit,
		Total:      r.Total,
		Page:       offset/limit + 1,
		End:        offset + shown,
		HasPrev:    offset > 0,
		HasNext:    offset+shown < r.Total,
		PrevOffset: max(0, offset-limit),
		NextOffset: offset + limit,
	}
	if shown > 0 {
		w.Start = offset + 1
	}
	return w
}
