package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	apperrors "propvest/internal/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: expected %.6f (±%g), got %.6f", name, want, tol, got)
	}
}

func assertCode(t *testing.T, err error, sentinel *apperrors.AppError) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", sentinel.Code)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %s, got %v", sentinel.Code, err)
	}
}

// rentalProperty is a mortgage-free property renting for $2,000 a month.
func rentalProperty() *Property {
	return &Property{
		ID:                 "prop-1",
		Name:               "Maple Duplex",
		PurchasePrice:      400000,
		PurchaseDate:       date(2019, time.June, 1),
		CurrentMarketValue: 500000,
		MonthlyRent:        2000,
	}
}

func mortgagedProperty() *Property {
	p := rentalProperty()
	p.Expenses = MonthlyExpenses{PropertyTax: 300, Insurance: 100, Maintenance: 100}
	p.Mortgage = &Mortgage{
		Lender:            "First Bank",
		OriginalAmount:    300000,
		InterestRate:      0.03,
		RateType:          RateFixed,
		TermMonths:        60,
		AmortizationYears: 25,
		PaymentFrequency:  FrequencyMonthly,
		StartDate:         date(2020, time.January, 1),
	}
	return p
}

func flatAssumptions() AssumptionSet {
	return AssumptionSet{Name: "flat", Mode: ModeCashFlow}
}
