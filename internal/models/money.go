package models

import "github.com/shopspring/decimal"

// ToCents converts a base-unit amount to int64 cents, rounding half away from zero.
func ToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// FromCents converts int64 cents back to a base-unit amount.
func FromCents(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// ToCentsPtr is ToCents for optional amounts.
func ToCentsPtr(amount *float64) *int64 {
	if amount == nil {
		return nil
	}
	c := ToCents(*amount)
	return &c
}

// FromCentsPtr is FromCents for optional amounts.
func FromCentsPtr(cents *int64) *float64 {
	if cents == nil {
		return nil
	}
	v := FromCents(*cents)
	return &v
}
