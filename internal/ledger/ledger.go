// Package ledger turns daily meal costs and member meal counts into cost
// shares, balances and monthly billing snapshots.
//
// Every change to a date goes through storage.Store.MutateDay, so the day's
// cost row and all of its tracking records are re-priced and written together.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/mealledger/internal/events"
	"github.com/mmynk/mealledger/internal/storage"
)

const defaultBillingWorkers = 4

// Ledger is the allocation, balance and billing engine.
type Ledger struct {
	store     storage.Store
	publisher events.Publisher
	workers   int
	now       func() time.Time
	locks     *keyedMutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets where change events go. Defaults to events.NoopPublisher.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithBillingWorkers bounds the number of members billed in parallel.
func WithBillingWorkers(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: events.NoopPublisher{},
		workers:   defaultBillingWorkers,
		now:       time.Now,
		locks:     newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// publish sends msg and only logs failures; the change is already committed.
func (l *Ledger) publish(ctx context.Context, msg events.Message) {
	if err := l.publisher.Publish(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish event", "routing_key", msg.RoutingKey(), "error", err)
	}
}
