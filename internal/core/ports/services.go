package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

// EventPublisher publishes search events to a message broker.
type EventPublisher interface {
	PublishSearchEvent(ctx context.Context, event *domain.SearchEvent) error
}

// ErrCacheMiss is returned by CacheService.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
