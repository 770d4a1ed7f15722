package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/models"
)

// MonthClose is the closed-out position of one member for one month.
type MonthClose struct {
	OpeningBalance   decimal.Decimal
	MonthlyDeposit   decimal.Decimal
	TotalConsumption decimal.Decimal
	ClosingBalance   decimal.Decimal
	DueAmount        decimal.Decimal
	PaymentStatus    models.PaymentStatus
}

// CloseMonth computes closing balance and amount due for a billing cycle.
//
//	closing = opening + deposit - consumption
//	due     = max(0, -closing)
//	status  = paid when due == 0, pending otherwise
func CloseMonth(opening, deposit, consumption decimal.Decimal) MonthClose {
	closing := opening.Add(deposit).Sub(consumption)

	due := decimal.Zero
	if closing.IsNegative() {
		due = closing.Neg()
	}

	status := models.PaymentPaid
	if due.IsPositive() {
		status = models.PaymentPending
	}

	return MonthClose{
		OpeningBalance:   opening,
		MonthlyDeposit:   deposit,
		TotalConsumption: consumption,
		ClosingBalance:   closing,
		DueAmount:        due,
		PaymentStatus:    status,
	}
}
