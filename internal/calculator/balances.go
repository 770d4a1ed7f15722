package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/models"
)

// DepositForBalance represents a deposit with the minimal information needed for balance calculations.
type DepositForBalance struct {
	Amount decimal.Decimal
	Status models.DepositStatus
}

// MemberBalance represents the balance information for one member over a window.
type MemberBalance struct {
	MemberID       string
	CurrentBalance decimal.Decimal // Positive = money left in the kitty, Negative = member owes
	ReceivedAmount decimal.Decimal // Sum of received deposits
	ConsumedAmount decimal.Decimal // Sum of tracking costs, paid or not
	PendingAmount  decimal.Decimal // Informational, never netted
	OverdueAmount  decimal.Decimal // Informational, never netted
}

// CalculateBalance derives a member's balance from their deposits and daily costs.
//
// Algorithm:
//   - received deposits add to the balance
//   - every posted daily cost subtracts, regardless of the paid flag
//     (paid marks settlement bookkeeping, not whether the cost was incurred)
//   - pending and overdue deposits are totalled separately
func CalculateBalance(memberID string, deposits []DepositForBalance, costs []decimal.Decimal) MemberBalance {
	bal := MemberBalance{
		MemberID:       memberID,
		ReceivedAmount: decimal.Zero,
		ConsumedAmount: decimal.Zero,
		PendingAmount:  decimal.Zero,
		OverdueAmount:  decimal.Zero,
	}

	for _, d := range deposits {
		switch d.Status {
		case models.DepositReceived:
			bal.ReceivedAmount = bal.ReceivedAmount.Add(d.Amount)
		case models.DepositPending:
			bal.PendingAmount = bal.PendingAmount.Add(d.Amount)
		case models.DepositOverdue:
			bal.OverdueAmount = bal.OverdueAmount.Add(d.Amount)
		}
	}

	for _, c := range costs {
		bal.ConsumedAmount = bal.ConsumedAmount.Add(c)
	}

	bal.CurrentBalance = bal.ReceivedAmount.Sub(bal.ConsumedAmount)
	return bal
}

// ReceivedTotal sums the received deposits only.
func ReceivedTotal(deposits []DepositForBalance) decimal.Decimal {
	total := decimal.Zero
	for _, d := range deposits {
		if d.Status == models.DepositReceived {
			total = total.Add(d.Amount)
		}
	}
	return total
}
