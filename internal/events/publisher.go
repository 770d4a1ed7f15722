package events

import (
	"context"
	"log/slog"
)

// Publisher delivers messages to subscribers. Publishing happens after the
// change is committed, so a failure never undoes the change.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// NoopPublisher drops every message. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, msg Message) error {
	slog.DebugContext(ctx, "Event dropped, no broker configured", "routing_key", msg.RoutingKey())
	return nil
}

func (NoopPublisher) Close() error { return nil }
