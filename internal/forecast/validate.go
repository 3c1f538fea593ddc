package forecast

import (
	"fmt"
	"math"
	"time"

	apperrors "propvest/internal/errors"
)

// MaxHoldingPeriod bounds the number of projected years.
const MaxHoldingPeriod = 50

// Input is everything the generator needs for one forecast.
type Input struct {
	Property      *Property
	Assumptions   AssumptionSet
	HoldingPeriod int
	AsOf          time.Time
}

// Validate rejects inputs that cannot produce a meaningful forecast. It runs
// before any computation so a failure never yields a partial forecast.
func (in Input) Validate() error {
	if in.HoldingPeriod < 1 || in.HoldingPeriod > MaxHoldingPeriod {
		return apperrors.WithMessage(apperrors.ErrInvalidHoldingPeriod,
			fmt.Sprintf("Holding period must be between 1 and %d years, got %d", MaxHoldingPeriod, in.HoldingPeriod))
	}
	if in.AsOf.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "A reference date is required")
	}
	if err := ValidateProperty(in.Property); err != nil {
		return err
	}
	return ValidateAssumptions(in.Assumptions)
}

// ValidateProperty checks the property snapshot and its mortgage.
func ValidateProperty(p *Property) error {
	if p == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidProperty, "Property is required")
	}
	if p.PurchasePrice < 0 || !finite(p.PurchasePrice) {
		return apperrors.WithMessage(apperrors.ErrInvalidProperty, "Purchase price must be positive")
	}
	if p.CurrentMarketValue < 0 || !finite(p.CurrentMarketValue) {
		return apperrors.WithMessage(apperrors.ErrInvalidProperty, "Current market value cannot be negative")
	}
	if p.MonthlyRent < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidProperty, "Monthly rent cannot be negative")
	}
	if p.TotalInvestment != nil && *p.TotalInvestment < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidProperty, "Total investment cannot be negative")
	}
	return ValidateMortgage(p.Mortgage)
}

// ValidateMortgage checks a mortgage. A nil mortgage is valid (all-cash property).
func ValidateMortgage(m *Mortgage) error {
	if m == nil {
		return nil
	}
	if m.OriginalAmount < 0 || !finite(m.OriginalAmount) {
		return apperrors.WithMessage(apperrors.ErrInvalidMortgage, "Mortgage amount cannot be negative")
	}
	if m.InterestRate < 0 || m.InterestRate >= 1 || !finite(m.InterestRate) {
		return apperrors.WithMessage(apperrors.ErrInvalidMortgage, "Interest rate must be a fraction in [0, 1)")
	}
	if m.OriginalAmount == 0 {
		return nil
	}
	if m.AmortizationYears <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidMortgage, "Amortization period must be at least one year")
	}
	if m.TermMonths < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidMortgage, "Term cannot be negative")
	}
	if m.TermMonths > m.AmortizationMonths() {
		return apperrors.WithMessage(apperrors.ErrTermExceedsAmortization,
			fmt.Sprintf("Term of %d months exceeds the %d-year amortization", m.TermMonths, m.AmortizationYears))
	}
	if !m.PaymentFrequency.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidMortgage,
			fmt.Sprintf("Unknown payment frequency %q", m.PaymentFrequency))
	}
	if m.RateType != "" && m.RateType != RateFixed && m.RateType != RateVariable {
		return apperrors.WithMessage(apperrors.ErrInvalidMortgage,
			fmt.Sprintf("Unknown rate type %q", m.RateType))
	}
	return nil
}

// ValidateAssumptions checks the ranges of an assumption set. A zero exit cap rate is
// accepted: it is a degenerate case handled per year, not an input error.
func ValidateAssumptions(a AssumptionSet) error {
	bad := func(msg string) error {
		return apperrors.WithMessage(apperrors.ErrInvalidAssumptions, msg)
	}
	selling := a.SellingCost()
	for _, r := range []float64{a.RentGrowthRate, a.ExpenseGrowthRate, a.VacancyRate, a.AppreciationRate,
		a.ExitCapRate, a.RenewalRate, selling} {
		if !finite(r) {
			return bad("Rates must be finite numbers")
		}
	}
	switch {
	case a.Mode != ModeCashFlow && a.Mode != ModeEquity:
		return bad("Unknown analysis mode")
	case a.RentGrowthRate <= -1, a.ExpenseGrowthRate <= -1, a.AppreciationRate <= -1:
		return bad("Growth rates must be greater than -100%")
	case a.VacancyRate < 0 || a.VacancyRate >= 1:
		return bad("Vacancy rate must be a fraction in [0, 1)")
	case a.ExitCapRate < 0:
		return bad("Exit cap rate cannot be negative")
	case a.RenewalRate < 0 || a.RenewalRate >= 1:
		return bad("Renewal rate must be a fraction in [0, 1)")
	case selling < 0 || selling >= 1:
		return bad("Selling cost must be a fraction in [0, 1)")
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
