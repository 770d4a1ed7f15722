package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/mealledger/internal/events"
	"github.com/mmynk/mealledger/internal/models"
)

// SettleResult reports how many unpaid records of a date were marked paid.
type SettleResult struct {
	Date      time.Time
	Processed int
	Total     int
	Version   int64
}

// SettleDate marks each unpaid record of the date paid when its member's
// all-time balance is not negative. The record's own cost is already part of
// that balance. The paid flag never changes a balance.
func (l *Ledger) SettleDate(ctx context.Context, date time.Time, actor string) (*SettleResult, error) {
	before, err := l.GetDay(ctx, date)
	if err != nil {
		return nil, err
	}
	if !before.Exists() {
		return nil, &models.NotFoundError{Kind: "daily meal cost", ID: models.FormatDate(date)}
	}

	covered := make(map[string]bool)
	for _, rec := range before.Records {
		if rec.Paid {
			continue
		}
		bal, err := l.ComputeBalance(ctx, rec.MemberID, models.Window{})
		if err != nil {
			return nil, fmt.Errorf("balance for member %s: %w", rec.MemberID, err)
		}
		covered[rec.MemberID] = !bal.CurrentBalance.IsNegative()
	}

	result := &SettleResult{Date: before.Cost.Date}
	now := l.now().Unix()
	day, err := l.store.MutateDay(ctx, date, func(day *models.DayLedger) error {
		// Balances were read against this version; anything newer means they may be stale.
		if err := checkWritable(day, before.Cost.Version); err != nil {
			return err
		}
		for i := range day.Records {
			rec := &day.Records[i]
			if rec.Paid {
				continue
			}
			result.Total++
			if covered[rec.MemberID] {
				rec.Paid = true
				rec.UpdatedAt = now
				rec.UpdatedBy = actor
				result.Processed++
			}
		}
		stamp(day, now, actor)
		return nil
	})
	observeMutation(events.CauseSettlement, err)
	if err != nil {
		return nil, err
	}
	result.Version = day.Cost.Version

	slog.InfoContext(ctx, "Date settled",
		"date", models.FormatDate(date),
		"processed", result.Processed,
		"total", result.Total,
	)
	l.publish(ctx, costChanged(day, events.CauseSettlement, now))
	return result, nil
}
