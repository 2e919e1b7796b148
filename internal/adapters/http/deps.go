package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Search   *usecases.SearchService
	Routes   *usecases.RouteService
	Upstream Pinger
	Cache    Pinger
	NATS     *nats.Conn
}
