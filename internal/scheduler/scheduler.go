// Package scheduler closes billing months on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/mealledger/internal/ledger"
	"github.com/mmynk/mealledger/internal/models"
)

const defaultRunTimeout = 10 * time.Minute

// MonthProcessor closes out a billing month.
type MonthProcessor interface {
	ProcessMonth(ctx context.Context, month models.Month) (*ledger.BillingResult, error)
}

// Scheduler processes the previous billing month each time its cron spec fires.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	processor MonthProcessor
	timeout   time.Duration
	now       func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRunTimeout bounds one billing run.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a scheduler for a standard five-field cron spec evaluated in UTC.
func New(spec string, processor MonthProcessor, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		spec:      spec,
		processor: processor,
		timeout:   defaultRunTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the billing job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.closePreviousMonth); err != nil {
		return fmt.Errorf("schedule billing %q: %w", s.spec, err)
	}
	slog.Info("Starting billing scheduler", "spec", s.spec)
	s.cron.Start()
	return nil
}

// Stop stops the cron loop. The returned context is done once a running job finishes.
func (s *Scheduler) Stop() context.Context {
	slog.Info("Stopping billing scheduler")
	return s.cron.Stop()
}

// RunOnce processes the month before the current one.
func (s *Scheduler) RunOnce(ctx context.Context) (*ledger.BillingResult, error) {
	month := models.MonthOf(s.now().UTC()).Prev()
	slog.InfoContext(ctx, "Scheduled billing run", "month", month.String())
	return s.processor.ProcessMonth(ctx, month)
}

func (s *Scheduler) closePreviousMonth() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.RunOnce(ctx)
	var partial *models.PartialBatchFailure
	switch {
	case errors.As(err, &partial):
		slog.Warn("Scheduled billing partially failed", "month", result.Month.String(), "failed_members", partial.FailedIDs())
	case err != nil:
		slog.Error("Scheduled billing failed", "error", err)
	default:
		slog.Info("Scheduled billing finished", "month", result.Month.String(), "processed", len(result.Snapshots))
	}
}
