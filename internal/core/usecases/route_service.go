package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/ports"
)

// RouteService handles single-route lookups.
type RouteService struct {
	routes ports.RouteSource
}

// NewRouteService creates a new RouteService.
func NewRouteService(routes ports.RouteSource) *RouteService {
	return &RouteService{routes: routes}
}

// GetByID returns a route by its upstream document id.
func (s *RouteService) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	id = strings.TrimSpace(id)
	if !isDocumentID(id) {
		return nil, fmt.Errorf("route id %q: %w", id, domain.ErrInvalidInput)
	}
	return s.routes.GetRoute(ctx, id)
}

// GetDetail returns the display view of a route.
func (s *RouteService) GetDetail(ctx context.Context, id string) (*domain.RouteDetail, error) {
	route, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := domain.Detail(*route, strings.TrimSpace(id))
	return &detail, nil
}

func isDocumentID(id string) bool {
	if id == "" || len(id) > 18 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
