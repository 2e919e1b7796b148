package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

const (
	searchStream  = "SEARCH_EVENTS"
	searchSubject = "explorer.search"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure stream exists
	cfg := StreamConfig()
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// StreamConfig describes the stream search events are retained in.
func StreamConfig() nats.StreamConfig {
	return nats.StreamConfig{
		Name:      searchStream,
		Subjects:  []string{searchSubject + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
}

// SubjectFor returns the subject an event is published on, keyed by strategy.
func SubjectFor(event *domain.SearchEvent) string {
	strategy := string(event.Strategy)
	if strategy == "" {
		strategy = "unknown"
	}
	return searchSubject + "." + strategy
}

// PublishSearchEvent publishes a resolved search.
func (p *Publisher) PublishSearchEvent(ctx context.Context, event *domain.SearchEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectFor(event), data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Connect opens a plain NATS connection that retries forever.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("c2cexplorer"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
