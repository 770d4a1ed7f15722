package ledger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/models"
)

// RecordDepositInput describes a deposit to record.
type RecordDepositInput struct {
	MemberID string
	Month    models.Month
	Amount   decimal.Decimal
	Status   models.DepositStatus
	Notes    string
}

// RecordDeposit stores a deposit for a member. Status defaults to pending.
// Deposits into a closed billing month are rejected with a ConflictError.
func (l *Ledger) RecordDeposit(ctx context.Context, in RecordDepositInput) (*models.MonthlyDeposit, error) {
	if in.MemberID == "" {
		return nil, &models.ValidationError{Field: "member_id", Reason: "must not be empty"}
	}
	if in.Month.IsZero() {
		return nil, &models.ValidationError{Field: "month", Reason: "must be set"}
	}
	if err := models.ValidateMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, &models.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if in.Status == "" {
		in.Status = models.DepositPending
	}
	if !models.ValidDepositStatus(in.Status) {
		return nil, &models.ValidationError{Field: "status", Reason: "must be pending, received or overdue"}
	}
	if _, err := l.store.GetMember(ctx, in.MemberID); err != nil {
		return nil, err
	}

	deposit := &models.MonthlyDeposit{
		MemberID:  in.MemberID,
		Month:     in.Month,
		Amount:    in.Amount,
		Status:    in.Status,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: l.now().Unix(),
	}
	if err := l.store.CreateDeposit(ctx, deposit); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Deposit recorded",
		"deposit_id", deposit.ID,
		"member_id", deposit.MemberID,
		"month", deposit.Month.String(),
		"amount", deposit.Amount.StringFixed(models.CentPlaces),
		"status", deposit.Status,
	)
	return deposit, nil
}

// SetDepositStatus moves a deposit between pending, received and overdue. The
// deposit's month must not be closed.
func (l *Ledger) SetDepositStatus(ctx context.Context, depositID string, status models.DepositStatus) (*models.MonthlyDeposit, error) {
	if depositID == "" {
		return nil, &models.ValidationError{Field: "deposit_id", Reason: "must not be empty"}
	}
	if !models.ValidDepositStatus(status) {
		return nil, &models.ValidationError{Field: "status", Reason: "must be pending, received or overdue"}
	}

	deposit, err := l.store.SetDepositStatus(ctx, depositID, status)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Deposit status changed", "deposit_id", depositID, "status", status)
	return deposit, nil
}
