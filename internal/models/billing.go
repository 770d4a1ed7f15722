package models

import "github.com/shopspring/decimal"

// PaymentStatus is the settlement state of a billing snapshot.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// BillingMonthStatus tells whether a month's dates can still be edited.
type BillingMonthStatus string

const (
	BillingMonthOpen   BillingMonthStatus = "open"
	BillingMonthClosed BillingMonthStatus = "closed"
)

// BillingSnapshot is a member's closed-out position for one month.
// (MemberID, Month) is unique; reprocessing overwrites it.
type BillingSnapshot struct {
	// ID is the unique identifier for the snapshot (UUID format).
	ID string

	MemberID string
	Month    Month

	// OpeningBalance is the closing balance of the previous month's snapshot, or 0.
	OpeningBalance decimal.Decimal

	// MonthlyDeposit is the sum of received deposits for the month.
	MonthlyDeposit decimal.Decimal

	// TotalConsumption is the sum of tracking TotalCost dated within the month.
	TotalConsumption decimal.Decimal

	// ClosingBalance = OpeningBalance + MonthlyDeposit - TotalConsumption.
	ClosingBalance decimal.Decimal

	// DueAmount = max(0, -ClosingBalance).
	DueAmount decimal.Decimal

	PaymentStatus PaymentStatus
	Processed     bool
	ProcessedAt   int64
}

// BillingMonth records whether a month has been processed and is locked.
type BillingMonth struct {
	Month       Month
	Status      BillingMonthStatus
	ProcessedAt int64
}
