package models

import "github.com/shopspring/decimal"

// DepositStatus is the lifecycle state of a deposit.
type DepositStatus string

const (
	DepositPending  DepositStatus = "pending"
	DepositReceived DepositStatus = "received"
	DepositOverdue  DepositStatus = "overdue"
)

// ValidDepositStatus reports whether s is a known deposit status.
func ValidDepositStatus(s DepositStatus) bool {
	switch s {
	case DepositPending, DepositReceived, DepositOverdue:
		return true
	}
	return false
}

// MonthlyDeposit represents funds credited (or expected) to a member for a month.
// Only received deposits count towards a balance.
type MonthlyDeposit struct {
	// ID is the unique identifier for the deposit (UUID format).
	ID string

	// MemberID is the member the deposit belongs to.
	MemberID string

	// Month is the billing month the deposit is for.
	Month Month

	// Amount is the deposited amount. Always positive.
	Amount decimal.Decimal

	// Status is pending, received or overdue.
	Status DepositStatus

	// Notes is an optional description.
	Notes string

	// CreatedAt is the Unix timestamp when the deposit was recorded.
	CreatedAt int64
}
