package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"propvest/internal/forecast"
	"propvest/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC on the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewTestProperty returns a mortgage-free property renting for 2,000 a month
// with 500 of monthly expenses and a unique id.
func NewTestProperty() *forecast.Property {
	id := nextID()
	return &forecast.Property{
		ID:                 fmt.Sprintf("prop-%d", id),
		Name:               fmt.Sprintf("Test Property %d", id),
		PurchasePrice:      400000,
		PurchaseDate:       Date(2019, time.June, 1),
		CurrentMarketValue: 500000,
		MonthlyRent:        2000,
		Expenses: forecast.MonthlyExpenses{
			PropertyTax: 300,
			Insurance:   100,
			Maintenance: 100,
		},
	}
}

// NewTestMortgage returns a 300,000 fixed-rate monthly mortgage at 3%,
// amortized over 25 years with a five-year term starting in 2020.
func NewTestMortgage() *forecast.Mortgage {
	return &forecast.Mortgage{
		Lender:            "First Bank",
		OriginalAmount:    300000,
		InterestRate:      0.03,
		RateType:          forecast.RateFixed,
		TermMonths:        60,
		AmortizationYears: 25,
		PaymentFrequency:  forecast.FrequencyMonthly,
		StartDate:         Date(2020, time.January, 1),
	}
}

// NewTestMortgagedProperty returns NewTestProperty carrying NewTestMortgage.
func NewTestMortgagedProperty() *forecast.Property {
	p := NewTestProperty()
	p.Mortgage = NewTestMortgage()
	return p
}

// NewTestInput returns a five-year cash-flow forecast input as of mid-2024.
func NewTestInput(p *forecast.Property) forecast.Input {
	return forecast.Input{
		Property:      p,
		Assumptions:   forecast.DefaultAssumptions(forecast.ModeCashFlow),
		HoldingPeriod: 5,
		AsOf:          Date(2024, time.July, 1),
	}
}

// CreateTestScenario stores a two-year scenario snapshot for the owner and property.
func CreateTestScenario(t *testing.T, db *gorm.DB, ownerID, propertyID string) *models.Scenario {
	t.Helper()

	value := int64(51500000)
	equity := int64(23000000)
	irr := 0.08
	scenario := &models.Scenario{
		OwnerID:       ownerID,
		PropertyID:    propertyID,
		Name:          fmt.Sprintf("Scenario %d", nextID()),
		Mode:          forecast.ModeCashFlow.String(),
		HoldingPeriod: 2,
		AsOf:          Date(2024, time.July, 1),
		Assumptions: models.ScenarioAssumptions{
			Name:             "Cash flow",
			RentGrowthRate:   0.03,
			AppreciationRate: 0.03,
			SellingCostPct:   0.05,
		},
		InitialValue:   50000000,
		InitialBalance: 29000000,
		CurrentBalance: 28500000,
		CashInvested:   10000000,
		IRR:            &irr,
		IRRIterations:  6,
		CapRate:        0.036,
		LTV:            0.57,
		CashOnCash:     0.02,
		CreatedAt:      time.Now().UTC(),
		Periods: []models.ScenarioPeriod{
			{Year: 2, CalendarYear: 2025, GrossIncome: 2472000, NOI: 1872000, MortgageBalance: 27900000, PropertyValue: &value, Equity: &equity},
			{Year: 1, CalendarYear: 2024, GrossIncome: 2400000, NOI: 1800000, MortgageBalance: 28500000, PropertyValue: &value, Equity: &equity},
		},
	}
	if err := db.Create(scenario).Error; err != nil {
		t.Fatalf("failed to create test scenario: %v", err)
	}
	return scenario
}
