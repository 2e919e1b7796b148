package ports

import (
	"context"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

// RouteSource reads routes from the upstream route database.
type RouteSource interface {
	// ListRoutes executes a single /routes call with the given parameters.
	ListRoutes(ctx context.Context, params domain.ListParams) (*domain.RoutePage, error)
	// GetRoute returns one route document. Missing documents yield domain.ErrNotFound.
	GetRoute(ctx context.Context, id string) (*domain.Route, error)
}
