package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

const testBBox = "745840.588,5758157.331,795934.903,5796388.797"

// --- Mock RouteSource ---

type mockRouteSource struct {
	mu     sync.Mutex
	calls  []domain.ListParams
	gets   []string
	listFn func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error)
	getFn  func(ctx context.Context, id string) (*domain.Route, error)
}

func (m *mockRouteSource) ListRoutes(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, p)
	m.mu.Unlock()
	if m.listFn != nil {
		return m.listFn(ctx, p)
	}
	return &domain.RoutePage{}, nil
}

func (m *mockRouteSource) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	m.mu.Lock()
	m.gets = append(m.gets, id)
	m.mu.Unlock()
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func pageOf(total int, docs ...domain.Route) *domain.RoutePage {
	if docs == nil {
		docs = []domain.Route{}
	}
	return &domain.RoutePage{Documents: docs, Total: total}
}

func docs(n int) []domain.Route {
	out := make([]domain.Route, n)
	for i := range out {
		out[i] = domain.Route{DocumentID: int64(i + 1)}
	}
	return out
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	events chan *domain.SearchEvent
	err    error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{events: make(chan *domain.SearchEvent, 4)}
}

func (m *mockPublisher) PublishSearchEvent(ctx context.Context, e *domain.SearchEvent) error {
	m.events <- e
	return m.err
}

func boolPtr(b bool) *bool { return &b }
