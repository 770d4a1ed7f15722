package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/calculator"
	"github.com/mmynk/mealledger/internal/events"
	"github.com/mmynk/mealledger/internal/metrics"
	"github.com/mmynk/mealledger/internal/models"
)

// TrackingEntry is one member's counts for a date.
type TrackingEntry struct {
	MemberID    string
	LunchCount  int
	DinnerCount int

	// Notes replaces the stored note when non-nil.
	Notes *string
}

// UpsertInput sets one member's counts for a date.
type UpsertInput struct {
	Date time.Time
	TrackingEntry

	// ExpectedVersion enables the optimistic check when > 0.
	ExpectedVersion int64
	UpdatedBy       string
}

// BulkUpsertInput sets several members' counts for one date at once.
type BulkUpsertInput struct {
	Date    time.Time
	Entries []TrackingEntry

	// ExpectedVersion enables the optimistic check when > 0.
	ExpectedVersion int64
	UpdatedBy       string
}

// SetDailyCostInput sets a date's lunch and dinner totals.
type SetDailyCostInput struct {
	Date       time.Time
	LunchCost  decimal.Decimal
	DinnerCost decimal.Decimal

	// ExpectedVersion enables the optimistic check when > 0.
	ExpectedVersion int64
	UpdatedBy       string
}

// Upsert creates or updates one member's tracking record. Because shares
// depend on everyone's counts, the whole date is re-priced.
func (l *Ledger) Upsert(ctx context.Context, in UpsertInput) (*models.MemberMealTracking, *models.DailyMealCost, error) {
	day, err := l.BulkUpsert(ctx, BulkUpsertInput{
		Date:            in.Date,
		Entries:         []TrackingEntry{in.TrackingEntry},
		ExpectedVersion: in.ExpectedVersion,
		UpdatedBy:       in.UpdatedBy,
	})
	if err != nil {
		return nil, nil, err
	}
	rec := day.Record(in.MemberID)
	if rec == nil {
		return nil, nil, fmt.Errorf("record for member %s missing after upsert", in.MemberID)
	}
	return rec, &day.Cost, nil
}

// BulkUpsert applies all entries to a date in one transaction. The allocator
// runs once over the date's existing records merged with the entries; if any
// write fails nothing is stored.
func (l *Ledger) BulkUpsert(ctx context.Context, in BulkUpsertInput) (*models.DayLedger, error) {
	if err := validateEntries(in.Date, in.Entries); err != nil {
		return nil, err
	}
	for _, e := range in.Entries {
		if _, err := l.store.GetMember(ctx, e.MemberID); err != nil {
			return nil, err
		}
	}

	now := l.now().Unix()
	day, err := l.store.MutateDay(ctx, in.Date, func(day *models.DayLedger) error {
		if err := checkWritable(day, in.ExpectedVersion); err != nil {
			return err
		}
		for _, e := range in.Entries {
			rec := day.Record(e.MemberID)
			if rec == nil {
				day.Records = append(day.Records, models.MemberMealTracking{MemberID: e.MemberID})
				rec = &day.Records[len(day.Records)-1]
			}
			rec.LunchCount = e.LunchCount
			rec.DinnerCount = e.DinnerCount
			if e.Notes != nil {
				rec.Notes = *e.Notes
			}
			rec.UpdatedAt = now
			rec.UpdatedBy = in.UpdatedBy
		}
		stamp(day, now, in.UpdatedBy)
		return reprice(day)
	})
	observeMutation(events.CauseTracking, err)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Tracking updated",
		"date", models.FormatDate(day.Cost.Date),
		"entries", len(in.Entries),
		"records", len(day.Records),
		"version", day.Cost.Version,
	)
	l.publish(ctx, costChanged(day, events.CauseTracking, now))
	return day, nil
}

// SetDailyCost sets the day's totals and re-prices every record of the date.
func (l *Ledger) SetDailyCost(ctx context.Context, in SetDailyCostInput) (*models.DayLedger, error) {
	if in.Date.IsZero() {
		return nil, &models.ValidationError{Field: "date", Reason: "must be set"}
	}
	if err := models.ValidateMoney("lunch_cost", in.LunchCost); err != nil {
		return nil, err
	}
	if err := models.ValidateMoney("dinner_cost", in.DinnerCost); err != nil {
		return nil, err
	}

	now := l.now().Unix()
	day, err := l.store.MutateDay(ctx, in.Date, func(day *models.DayLedger) error {
		if err := checkWritable(day, in.ExpectedVersion); err != nil {
			return err
		}
		day.Cost.LunchCost = in.LunchCost
		day.Cost.DinnerCost = in.DinnerCost
		stamp(day, now, in.UpdatedBy)
		return reprice(day)
	})
	observeMutation(events.CauseCost, err)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Daily cost set",
		"date", models.FormatDate(day.Cost.Date),
		"lunch_cost", day.Cost.LunchCost.StringFixed(models.CentPlaces),
		"dinner_cost", day.Cost.DinnerCost.StringFixed(models.CentPlaces),
		"records", len(day.Records),
		"version", day.Cost.Version,
	)
	l.publish(ctx, costChanged(day, events.CauseCost, now))
	return day, nil
}

// GetDay returns the day's cost row and all of its records, read together.
func (l *Ledger) GetDay(ctx context.Context, date time.Time) (*models.DayLedger, error) {
	if date.IsZero() {
		return nil, &models.ValidationError{Field: "date", Reason: "must be set"}
	}
	return l.store.GetDay(ctx, date)
}

// GetDailyCost returns the day's cost row, or a NotFoundError when the date has none.
func (l *Ledger) GetDailyCost(ctx context.Context, date time.Time) (*models.DailyMealCost, error) {
	day, err := l.GetDay(ctx, date)
	if err != nil {
		return nil, err
	}
	if !day.Exists() {
		return nil, &models.NotFoundError{Kind: "daily meal cost", ID: models.FormatDate(date)}
	}
	return &day.Cost, nil
}

func validateEntries(date time.Time, entries []TrackingEntry) error {
	if date.IsZero() {
		return &models.ValidationError{Field: "date", Reason: "must be set"}
	}
	if len(entries) == 0 {
		return &models.ValidationError{Field: "entries", Reason: "at least one entry is required"}
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.MemberID == "" {
			return &models.ValidationError{Field: "member_id", Reason: "must not be empty"}
		}
		if seen[e.MemberID] {
			return &models.ValidationError{Field: "entries", Reason: fmt.Sprintf("member %s listed twice", e.MemberID)}
		}
		seen[e.MemberID] = true
		if err := models.ValidateMealCount("lunch_count", e.LunchCount); err != nil {
			return err
		}
		if err := models.ValidateMealCount("dinner_count", e.DinnerCount); err != nil {
			return err
		}
	}
	return nil
}

// checkWritable rejects edits to a closed month and stale versions.
func checkWritable(day *models.DayLedger, expectedVersion int64) error {
	date := models.FormatDate(day.Cost.Date)
	if day.MonthClosed {
		return &models.ConflictError{Reason: fmt.Sprintf("billing month %s is closed, reopen it to edit %s", models.MonthOf(day.Cost.Date), date)}
	}
	if expectedVersion > 0 && expectedVersion != day.Cost.Version {
		return models.VersionConflict(date, expectedVersion, day.Cost.Version)
	}
	return nil
}

func stamp(day *models.DayLedger, now int64, actor string) {
	day.Cost.UpdatedAt = now
	day.Cost.UpdatedBy = actor
}

// reprice runs the allocator over every record of the day and writes the
// shares, unit counts and per-unit costs back into it.
func reprice(day *models.DayLedger) error {
	parts := make([]calculator.Participation, len(day.Records))
	for i, r := range day.Records {
		parts[i] = calculator.Participation{
			MemberID:    r.MemberID,
			LunchCount:  r.LunchCount,
			DinnerCount: r.DinnerCount,
		}
	}

	alloc, err := calculator.Allocate(day.Cost.LunchCost, day.Cost.DinnerCost, parts)
	if err != nil {
		return err
	}

	day.Cost.LunchParticipants = alloc.LunchParticipants
	day.Cost.DinnerParticipants = alloc.DinnerParticipants
	day.Cost.LunchCostPerUnit = alloc.LunchCostPerUnit
	day.Cost.DinnerCostPerUnit = alloc.DinnerCostPerUnit
	for i, share := range alloc.Shares {
		rec := &day.Records[i]
		rec.LunchCost = share.LunchCost
		rec.DinnerCost = share.DinnerCost
		rec.TotalCost = share.TotalCost
	}
	return nil
}

func costChanged(day *models.DayLedger, cause string, now int64) *events.DailyCostChanged {
	return &events.DailyCostChanged{
		Date:               models.FormatDate(day.Cost.Date),
		Version:            day.Cost.Version,
		Cause:              cause,
		LunchCost:          day.Cost.LunchCost.StringFixed(models.CentPlaces),
		DinnerCost:         day.Cost.DinnerCost.StringFixed(models.CentPlaces),
		LunchParticipants:  day.Cost.LunchParticipants,
		DinnerParticipants: day.Cost.DinnerParticipants,
		UpdatedBy:          day.Cost.UpdatedBy,
		Timestamp:          time.Unix(now, 0).UTC(),
	}
}

func observeMutation(cause string, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, models.ErrConflict):
		outcome = metrics.OutcomeConflict
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.DayMutations.WithLabelValues(cause, outcome).Inc()
}
