package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CentPlaces is the precision of every stored money value.
const CentPlaces = 2

// ParseMoney parses a non-negative decimal amount with at most two fractional digits.
// An empty string is zero. The field name is only used for the validation error.
func ParseMoney(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a decimal amount", s)}
	}
	if err := ValidateMoney(field, d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateMoney rejects negative amounts and amounts finer than a cent.
func ValidateMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	if !d.Equal(d.Truncate(CentPlaces)) {
		return &ValidationError{Field: field, Reason: "must have at most two decimal places"}
	}
	return nil
}

// Cents rounds d half-up to cent precision.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// SumMoney adds amounts.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
