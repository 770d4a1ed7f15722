package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxMealCount is the highest lunch or dinner count a member can have on one date.
const MaxMealCount = 2

// ValidateMealCount rejects counts outside {0, 1, 2}.
func ValidateMealCount(field string, n int) error {
	if n < 0 || n > MaxMealCount {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%d is outside 0..%d", n, MaxMealCount)}
	}
	return nil
}

// DailyMealCost holds the lunch and dinner totals for one calendar date.
// Participant counts and per-unit costs are derived from the tracking records of the date.
type DailyMealCost struct {
	// Date is the calendar date (UTC midnight).
	Date time.Time

	// LunchCost is the total amount spent on lunch that day.
	LunchCost decimal.Decimal

	// DinnerCost is the total amount spent on dinner that day.
	DinnerCost decimal.Decimal

	// LunchParticipants is the number of lunch participant-units (a count of 2 counts twice).
	LunchParticipants int

	// DinnerParticipants is the number of dinner participant-units.
	DinnerParticipants int

	// LunchCostPerUnit is LunchCost / LunchParticipants, or 0 without participants.
	// Rounded to cents for display; member shares are allocated from the exact totals.
	LunchCostPerUnit decimal.Decimal

	// DinnerCostPerUnit is DinnerCost / DinnerParticipants, or 0 without participants.
	DinnerCostPerUnit decimal.Decimal

	// Version increments on every change to the date's allocation unit
	// (costs or any member's counts). Used for optimistic concurrency.
	Version int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64

	// UpdatedBy is the ID of the admin who made the last change (empty when unauthenticated).
	UpdatedBy string
}

// TotalCost returns lunch plus dinner cost for the day.
func (d *DailyMealCost) TotalCost() decimal.Decimal {
	return d.LunchCost.Add(d.DinnerCost)
}

// MemberMealTracking is one member's participation and cost share for one date.
// (MemberID, Date) is unique.
type MemberMealTracking struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// MemberID references the member.
	MemberID string

	// Date is the calendar date (UTC midnight).
	Date time.Time

	// LunchCount is the number of lunches taken, 0..2.
	LunchCount int

	// DinnerCount is the number of dinners taken, 0..2.
	DinnerCount int

	// LunchCost is the member's share of the day's lunch cost.
	LunchCost decimal.Decimal

	// DinnerCost is the member's share of the day's dinner cost.
	DinnerCost decimal.Decimal

	// TotalCost is LunchCost + DinnerCost. Always recomputed, never entered.
	TotalCost decimal.Decimal

	// Paid marks the record as settled. It does not affect balances.
	Paid bool

	// Notes is a free-form admin note.
	Notes string

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64

	// UpdatedBy is the ID of the admin who made the last change.
	UpdatedBy string
}

// DayLedger is the allocation unit for one date: the day's cost row and every
// tracking record of that date. Storage loads and saves it as a whole.
type DayLedger struct {
	// Cost is the day's cost row. Version 0 means the row does not exist yet.
	Cost DailyMealCost

	// Records are all tracking records of the date.
	Records []MemberMealTracking

	// MonthClosed is true when the date belongs to a closed billing month.
	MonthClosed bool
}

// Exists reports whether the day's cost row is already stored.
func (d *DayLedger) Exists() bool {
	return d.Cost.Version > 0
}

// Record returns the record for memberID, or nil.
func (d *DayLedger) Record(memberID string) *MemberMealTracking {
	for i := range d.Records {
		if d.Records[i].MemberID == memberID {
			return &d.Records[i]
		}
	}
	return nil
}
