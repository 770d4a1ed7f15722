package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/internal/storage"
)

// MonthSummary is the dashboard view of one month, computed from stored rows.
type MonthSummary struct {
	Month models.Month

	ActiveMembers   int
	EmployeeMembers int
	GuestMembers    int

	// ParticipatingMembers had at least one meal in the month.
	ParticipatingMembers int

	LunchUnits    int
	DinnerUnits   int
	DaysWithCosts int

	TotalSpent       decimal.Decimal
	TotalConsumption decimal.Decimal
	DepositsReceived decimal.Decimal
	DepositsPending  decimal.Decimal
	DepositsOverdue  decimal.Decimal

	// AverageCostPerMember is TotalConsumption / ParticipatingMembers, or 0.
	AverageCostPerMember decimal.Decimal

	// ParticipationRate is ParticipatingMembers / ActiveMembers rounded to 4 places, or 0.
	ParticipationRate decimal.Decimal
}

// Summarize computes the month summary. Employee and guest counts cover active members only.
func (l *Ledger) Summarize(ctx context.Context, month models.Month) (*MonthSummary, error) {
	if month.IsZero() {
		return nil, &models.ValidationError{Field: "month", Reason: "must be set"}
	}
	window := models.MonthWindow(month)

	members, err := l.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	costs, err := l.store.ListDailyCosts(ctx, window)
	if err != nil {
		return nil, err
	}
	records, err := l.store.ListTracking(ctx, storage.TrackingFilter{Window: window})
	if err != nil {
		return nil, err
	}
	deposits, err := l.store.ListDeposits(ctx, storage.DepositFilter{From: month, To: month})
	if err != nil {
		return nil, err
	}

	s := &MonthSummary{Month: month}
	for _, m := range members {
		if !m.IsActive() {
			continue
		}
		s.ActiveMembers++
		switch m.Type {
		case models.MemberTypeEmployee:
			s.EmployeeMembers++
		case models.MemberTypeGuest:
			s.GuestMembers++
		}
	}

	for _, c := range costs {
		total := c.TotalCost()
		if total.IsPositive() {
			s.DaysWithCosts++
		}
		s.TotalSpent = s.TotalSpent.Add(total)
	}

	participants := make(map[string]bool)
	for _, r := range records {
		s.LunchUnits += r.LunchCount
		s.DinnerUnits += r.DinnerCount
		s.TotalConsumption = s.TotalConsumption.Add(r.TotalCost)
		if r.LunchCount+r.DinnerCount > 0 {
			participants[r.MemberID] = true
		}
	}
	s.ParticipatingMembers = len(participants)

	for _, d := range deposits {
		switch d.Status {
		case models.DepositReceived:
			s.DepositsReceived = s.DepositsReceived.Add(d.Amount)
		case models.DepositPending:
			s.DepositsPending = s.DepositsPending.Add(d.Amount)
		case models.DepositOverdue:
			s.DepositsOverdue = s.DepositsOverdue.Add(d.Amount)
		}
	}

	if s.ParticipatingMembers > 0 {
		s.AverageCostPerMember = models.Cents(s.TotalConsumption.Div(decimal.NewFromInt(int64(s.ParticipatingMembers))))
	}
	if s.ActiveMembers > 0 {
		s.ParticipationRate = decimal.NewFromInt(int64(s.ParticipatingMembers)).
			Div(decimal.NewFromInt(int64(s.ActiveMembers))).
			Round(4)
	}
	return s, nil
}
