// Package c2c is a client for the camptocamp.org route database API.
package c2c

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/ports"
	"github.com/samirrijal/c2cexplorer/internal/pkg/logging"
	"github.com/samirrijal/c2cexplorer/internal/pkg/metrics"
)

const cachePrefix = "c2c:"

var tracer = otel.Tracer("github.com/samirrijal/c2cexplorer/internal/adapters/c2c")

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	CacheTTL  int // seconds; 0 disables caching
	UserAgent string
}

// Client implements ports.RouteSource over HTTP. Successful responses are
// cached for CacheTTL seconds and identical in-flight calls are coalesced.
// A caller whose context ends stops waiting without failing the other callers.
type Client struct {
	hc      *fasthttp.Client
	baseURL string
	timeout time.Duration
	cache   ports.CacheService
	ttl     int
	ua      string
	sf      singleflight.Group
}

// New creates a Client. cache may be nil.
func New(opts Options, cache ports.CacheService) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		hc: &fasthttp.Client{
			Name:                     opts.UserAgent,
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxIdleConnDuration:      time.Minute,
			NoDefaultUserAgentHeader: opts.UserAgent == "",
		},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: timeout,
		cache:   cache,
		ttl:     opts.CacheTTL,
		ua:      opts.UserAgent,
	}
}

// ListRoutes executes a single /routes call.
func (c *Client) ListRoutes(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
	body, err := c.get(ctx, "routes", "list routes", c.ListURL(p))
	if err != nil {
		return nil, err
	}

	var page domain.RoutePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	if page.Documents == nil {
		page.Documents = []domain.Route{}
	}
	page.Limit = p.Limit
	page.Offset = p.Offset
	return &page, nil
}

// ListURL returns the upstream URL for p.
func (c *Client) ListURL(p domain.ListParams) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", strconv.Itoa(p.Offset))
	q.Set("act", p.Activities)
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if len(p.AreaIDs) > 0 {
		q.Set("a", strings.Join(p.AreaIDs, ","))
	} else if p.BBox != "" {
		q.Set("bbox", p.BBox)
	}
	return c.baseURL + "/routes?" + q.Encode()
}

// GetRoute fetches one route document.
func (c *Client) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	body, err := c.get(ctx, "route", "fetch route "+id, c.baseURL+"/routes/"+url.PathEscape(id))
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) && ue.StatusCode == fasthttp.StatusNotFound {
			return nil, fmt.Errorf("route %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	var route domain.Route
	if err := json.Unmarshal(body, &route); err != nil {
		return nil, fmt.Errorf("decode route %s: %w", id, err)
	}
	return &route, nil
}

// Ping issues an uncached single-document listing.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fetch(ctx, "ping", "reach upstream", c.baseURL+"/routes?limit=1")
	return err
}

func (c *Client) get(ctx context.Context, endpoint, op, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cachePrefix + rawURL
	if c.cache != nil && c.ttl > 0 {
		cached, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			metrics.CacheHits.WithLabelValues(endpoint).Inc()
			return cached, nil
		case errors.Is(err, ports.ErrCacheMiss):
			metrics.CacheMisses.WithLabelValues(endpoint).Inc()
		default:
			logging.FromContext(ctx).Warn("cache get failed", "key", key, "error", err)
		}
	}

	// The shared call outlives any single waiter and is bounded by c.timeout only.
	ch := c.sf.DoChan(rawURL, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fetch(fctx, endpoint, op, rawURL)
	})

	var body []byte
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		body = res.Val.([]byte)
	}

	if c.cache != nil && c.ttl > 0 {
		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			logging.FromContext(ctx).Warn("cache set failed", "key", key, "error", err)
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, op, rawURL string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "c2c.GET "+endpoint)
	defer span.End()
	span.SetAttributes(attribute.String("http.url", rawURL))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.ua != "" {
		req.Header.SetUserAgent(c.ua)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}

	start := time.Now()
	err := c.hc.DoTimeout(req, resp, timeout)
	metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := resp.StatusCode()
	metrics.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", status))

	if status < 200 || status >= 300 {
		uerr := newUpstreamError(op, status, resp.Body())
		span.SetStatus(codes.Error, uerr.Error())
		return nil, uerr
	}

	// resp is released on return
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
