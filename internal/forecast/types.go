// Package forecast implements the investment forecasting and return-metrics engine:
// loan amortization, year-to-date actual/forecast blending, multi-year projections,
// IRR and related metrics, scenario comparison and portfolio aggregation.
//
// Everything in this package is pure. Callers pass the reference date explicitly
// and receive freshly allocated results; nothing is read from the system clock.
package forecast

import (
	"fmt"
	"strings"
	"time"
)

// MonthsPerYear is the number of calendar months in a projection year.
const MonthsPerYear = 12

// Mode selects how the terminal property value of a forecast is derived.
type Mode int

const (
	// ModeCashFlow compounds the appreciation rate every year, terminal year included.
	ModeCashFlow Mode = iota
	// ModeEquity capitalizes the terminal year's NOI at the exit cap rate.
	ModeEquity
)

// ParseMode parses the wire form of a Mode. An empty string means ModeCashFlow.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cash-flow", "cashflow", "cash_flow":
		return ModeCashFlow, nil
	case "equity":
		return ModeEquity, nil
	}
	return ModeCashFlow, fmt.Errorf("unknown analysis mode %q", s)
}

func (m Mode) String() string {
	if m == ModeEquity {
		return "equity"
	}
	return "cash-flow"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// PaymentFrequency is how often a mortgage payment falls due.
type PaymentFrequency string

const (
	FrequencyMonthly             PaymentFrequency = "monthly"
	FrequencySemiMonthly         PaymentFrequency = "semi-monthly"
	FrequencyBiWeekly            PaymentFrequency = "bi-weekly"
	FrequencyAcceleratedBiWeekly PaymentFrequency = "accelerated-bi-weekly"
	FrequencyWeekly              PaymentFrequency = "weekly"
	FrequencyAcceleratedWeekly   PaymentFrequency = "accelerated-weekly"
)

// PeriodsPerYear returns the number of payments per year, or 0 for an unknown frequency.
// The empty frequency is treated as monthly.
func (f PaymentFrequency) PeriodsPerYear() int {
	switch f {
	case FrequencyMonthly, "":
		return 12
	case FrequencySemiMonthly:
		return 24
	case FrequencyBiWeekly, FrequencyAcceleratedBiWeekly:
		return 26
	case FrequencyWeekly, FrequencyAcceleratedWeekly:
		return 52
	}
	return 0
}

// Accelerated reports whether payments are a fraction of the monthly payment
// rather than a level annuity over the frequency's own period count.
func (f PaymentFrequency) Accelerated() bool {
	return f == FrequencyAcceleratedBiWeekly || f == FrequencyAcceleratedWeekly
}

// Valid reports whether f is a known frequency.
func (f PaymentFrequency) Valid() bool { return f.PeriodsPerYear() > 0 }

// RateType describes how the mortgage rate behaves during its term.
type RateType string

const (
	RateFixed    RateType = "fixed"
	RateVariable RateType = "variable"
)

// Mortgage is a loan secured against a property.
type Mortgage struct {
	Lender            string           `json:"lender,omitempty"`
	OriginalAmount    float64          `json:"original_amount"`
	InterestRate      float64          `json:"interest_rate"`
	RateType          RateType         `json:"rate_type,omitempty"`
	TermMonths        int              `json:"term_months"`
	AmortizationYears int              `json:"amortization_years"`
	PaymentFrequency  PaymentFrequency `json:"payment_frequency"`
	StartDate         time.Time        `json:"start_date"`
	Details           MortgageDetails  `json:"details"`
}

// MortgageDetails holds optional lender-specific facts that older records kept
// in a free-form bag.
type MortgageDetails struct {
	PrepaymentAllowancePct *float64   `json:"prepayment_allowance_pct,omitempty"`
	// RenewalDate, when after the start date, ends the current term in place of
	// start + TermMonths. Later terms run TermMonths from each renewal.
	RenewalDate            *time.Time `json:"renewal_date,omitempty"`
	Notes                  string     `json:"notes,omitempty"`
}

// AmortizationMonths returns the full amortization length in months.
func (m *Mortgage) AmortizationMonths() int {
	if m == nil {
		return 0
	}
	return m.AmortizationYears * MonthsPerYear
}

// MonthlyExpenses is the static monthly operating-expense estimate of a property.
type MonthlyExpenses struct {
	PropertyTax      float64 `json:"property_tax"`
	Insurance        float64 `json:"insurance"`
	Maintenance      float64 `json:"maintenance"`
	CondoFees        float64 `json:"condo_fees"`
	ProfessionalFees float64 `json:"professional_fees"`
	Utilities        float64 `json:"utilities"`
	Other            float64 `json:"other"`
}

// Total returns the sum of every expense line.
func (e MonthlyExpenses) Total() float64 {
	return e.PropertyTax + e.Insurance + e.Maintenance + e.CondoFees +
		e.ProfessionalFees + e.Utilities + e.Other
}

// Unit is one rentable unit of a property.
type Unit struct {
	Label       string  `json:"label"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   float64 `json:"bathrooms"`
	MonthlyRent float64 `json:"monthly_rent"`
}

// Transaction is a dated income or expense record of a property.
type Transaction struct {
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
}

// PropertyDetails holds optional descriptive facts that older records kept in a
// free-form bag.
type PropertyDetails struct {
	YearBuilt       *int     `json:"year_built,omitempty"`
	PropertyType    string   `json:"property_type,omitempty"`
	ParkingSpots    *int     `json:"parking_spots,omitempty"`
	ClosingCosts    *float64 `json:"closing_costs,omitempty"`
	RenovationCosts *float64 `json:"renovation_costs,omitempty"`
}

// Property is a read-only snapshot of a rental property supplied by the caller.
type Property struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name,omitempty"`
	PurchasePrice      float64         `json:"purchase_price"`
	PurchaseDate       time.Time       `json:"purchase_date"`
	CurrentMarketValue float64         `json:"current_market_value"`
	Size               float64         `json:"size,omitempty"`
	Units              []Unit          `json:"units,omitempty"`
	MonthlyRent        float64         `json:"monthly_rent"`
	Expenses           MonthlyExpenses `json:"monthly_expenses"`
	TotalInvestment    *float64        `json:"total_investment,omitempty"`
	ExpenseHistory     []Transaction   `json:"expense_history,omitempty"`
	Mortgage           *Mortgage       `json:"mortgage,omitempty"`
	Details            PropertyDetails `json:"details"`
}

// EffectiveMonthlyRent is MonthlyRent, or the sum of the unit rents when MonthlyRent is unset.
func (p *Property) EffectiveMonthlyRent() float64 {
	if p.MonthlyRent > 0 {
		return p.MonthlyRent
	}
	var total float64
	for _, u := range p.Units {
		total += u.MonthlyRent
	}
	return total
}

// StartingValue is the value the projection starts from: the current market value,
// or the purchase price when no valuation is known.
func (p *Property) StartingValue() float64 {
	if p.CurrentMarketValue > 0 {
		return p.CurrentMarketValue
	}
	return p.PurchasePrice
}

// CashInvested returns the owner's invested capital: TotalInvestment when known,
// otherwise the purchase price minus the original mortgage amount. Never negative.
func (p *Property) CashInvested() float64 {
	if p.TotalInvestment != nil && *p.TotalInvestment > 0 {
		return *p.TotalInvestment
	}
	invested := p.PurchasePrice
	if p.Mortgage != nil {
		invested -= p.Mortgage.OriginalAmount
	}
	if invested < 0 {
		return 0
	}
	return invested
}

// AssumptionSet is a named bundle of forward-looking market rates.
type AssumptionSet struct {
	Name              string  `json:"name"`
	Mode              Mode    `json:"mode"`
	RentGrowthRate    float64 `json:"rent_growth_rate"`
	ExpenseGrowthRate float64 `json:"expense_growth_rate"`
	VacancyRate       float64 `json:"vacancy_rate"`
	AppreciationRate  float64 `json:"appreciation_rate"`
	ExitCapRate       float64 `json:"exit_cap_rate"`
	RenewalRate       float64 `json:"renewal_rate"`

	// SellingCostPct is nil when unset; an explicit 0 means no selling costs.
	SellingCostPct *float64 `json:"selling_cost_pct"`
}

// SellingCost returns the selling cost fraction, DefaultSellingCostPct when unset.
func (a AssumptionSet) SellingCost() float64 {
	if a.SellingCostPct == nil {
		return DefaultSellingCostPct
	}
	return *a.SellingCostPct
}

// DefaultSellingCostPct applies when an assumption set leaves the selling cost unset.
const DefaultSellingCostPct = 0.05

// DefaultAssumptions returns the preset assumption set for the given mode. The
// selling cost is left unset for the caller's configured default.
func DefaultAssumptions(mode Mode) AssumptionSet {
	if mode == ModeEquity {
		return AssumptionSet{
			Name:              "equity-default",
			Mode:              ModeEquity,
			RentGrowthRate:    0.03,
			ExpenseGrowthRate: 0.025,
			VacancyRate:       0.03,
			AppreciationRate:  0.03,
			ExitCapRate:       0.05,
			RenewalRate:       0.05,
		}
	}
	return AssumptionSet{
		Name:              "cash-flow-default",
		Mode:              ModeCashFlow,
		RentGrowthRate:    0.03,
		ExpenseGrowthRate: 0.025,
		VacancyRate:       0.03,
		AppreciationRate:  0.03,
		RenewalRate:       0.05,
	}
}

// Period is one projected year of a forecast.
type Period struct {
	Year               int      `json:"year"`
	CalendarYear       int      `json:"calendar_year"`
	GrossIncome        float64  `json:"gross_income"`
	OperatingExpenses  float64  `json:"operating_expenses"`
	NOI                float64  `json:"noi"`
	DebtService        float64  `json:"debt_service"`
	PrincipalPaid      float64  `json:"principal_paid"`
	InterestPaid       float64  `json:"interest_paid"`
	NetCashFlow        float64  `json:"net_cash_flow"`
	CumulativeCashFlow float64  `json:"cumulative_cash_flow"`
	PropertyValue      *float64 `json:"property_value"`
	MortgageBalance    float64  `json:"mortgage_balance"`
	Equity             *float64 `json:"equity"`
}

// Forecast is the result of one generator run. It is never modified after creation;
// a changed assumption produces a new Forecast. InitialBalance is the mortgage
// balance on January 1 of year 1 and CurrentBalance the balance at AsOf.
type Forecast struct {
	PropertyID     string        `json:"property_id"`
	Assumptions    AssumptionSet `json:"assumptions"`
	HoldingPeriod  int           `json:"holding_period"`
	AsOf           time.Time     `json:"as_of"`
	YearToDate     YearToDate    `json:"year_to_date"`
	InitialValue   float64       `json:"initial_value"`
	InitialBalance float64       `json:"initial_balance"`
	CurrentBalance float64       `json:"current_balance"`
	Periods        []Period      `json:"periods"`
}

// Mode returns the analysis mode of the forecast.
func (f *Forecast) Mode() Mode { return f.Assumptions.Mode }

// Final returns the terminal period, or nil for an empty forecast.
func (f *Forecast) Final() *Period {
	if len(f.Periods) == 0 {
		return nil
	}
	return &f.Periods[len(f.Periods)-1]
}

func floatPtr(v float64) *float64 { return &v }
