package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/calculator"
	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/internal/storage"
)

// ComputeBalance returns a member's balance over the window: received deposits
// whose month overlaps the window minus the cost of every tracking record dated
// inside it, paid or not. A zero window covers all time.
func (l *Ledger) ComputeBalance(ctx context.Context, memberID string, window models.Window) (*calculator.MemberBalance, error) {
	if memberID == "" {
		return nil, &models.ValidationError{Field: "member_id", Reason: "must not be empty"}
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if _, err := l.store.GetMember(ctx, memberID); err != nil {
		return nil, err
	}

	deposits, err := l.store.ListDeposits(ctx, depositFilterFor(memberID, window))
	if err != nil {
		return nil, err
	}
	records, err := l.store.ListTracking(ctx, storage.TrackingFilter{MemberID: memberID, Window: window})
	if err != nil {
		return nil, err
	}

	bal := calculator.CalculateBalance(memberID, depositsForBalance(deposits), recordCosts(records))
	return &bal, nil
}

func depositFilterFor(memberID string, window models.Window) storage.DepositFilter {
	f := storage.DepositFilter{MemberID: memberID}
	if !window.From.IsZero() {
		f.From = models.MonthOf(window.From)
	}
	if !window.To.IsZero() {
		f.To = models.MonthOf(window.To)
	}
	return f
}

func depositsForBalance(deposits []models.MonthlyDeposit) []calculator.DepositForBalance {
	out := make([]calculator.DepositForBalance, len(deposits))
	for i, d := range deposits {
		out[i] = calculator.DepositForBalance{Amount: d.Amount, Status: d.Status}
	}
	return out
}

func recordCosts(records []models.MemberMealTracking) []decimal.Decimal {
	out := make([]decimal.Decimal, len(records))
	for i, r := range records {
		out[i] = r.TotalCost
	}
	return out
}
