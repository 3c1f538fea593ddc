package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// Total is an exact portfolio sum that marshals as a bare JSON number.
type Total struct {
	decimal.Decimal
}

// MarshalJSON writes the exact decimal text unquoted.
func (t Total) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

// PropertySummary is one property's contribution to a portfolio for the current year.
type PropertySummary struct {
	PropertyID   string  `json:"property_id"`
	Name         string  `json:"name,omitempty"`
	Current      Segment `json:"current_year"`
	NOI          float64 `json:"noi"`
	Value        float64 `json:"value"`
	DebtBalance  float64 `json:"debt_balance"`
	CashInvested float64 `json:"cash_invested"`
	CapRate      float64 `json:"cap_rate"`
	LTV          float64 `json:"ltv"`
	CashOnCash   float64 `json:"cash_on_cash"`
}

// SummarizeProperty computes the blended current-year figures of p as of asOf.
func SummarizeProperty(p *Property, asOf time.Time) (PropertySummary, error) {
	if err := ValidateProperty(p); err != nil {
		return PropertySummary{}, err
	}
	debt := newDebtTrack(p, p.renewalFallbackRate(), asOf)
	debt.renewAt(time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location()))
	ytd := Partition(p, debt.schedule, asOf)

	s := PropertySummary{
		PropertyID:   p.ID,
		Name:         p.Name,
		Current:      ytd.Blended,
		NOI:          ytd.Blended.NOI(),
		Value:        p.StartingValue(),
		DebtBalance:  debt.balanceAt(asOf),
		CashInvested: p.CashInvested(),
	}
	s.CapRate = ratioOrZero(s.NOI, s.Value)
	s.LTV = ratioOrZero(s.DebtBalance, s.Value)
	s.CashOnCash = ratioOrZero(s.Current.NetCashFlow, s.CashInvested)
	return s, nil
}

// renewalFallbackRate is the rate assumed for a term that has already expired when
// no assumption set is at hand: the contract rate carries over.
func (p *Property) renewalFallbackRate() float64 {
	if p.Mortgage == nil {
		return 0
	}
	return p.Mortgage.InterestRate
}

// Portfolio is the aggregate of several property summaries. Totals are exact sums of
// the per-property figures; net cash flow and the ratios are derived from the
// totals, never averaged across properties.
type Portfolio struct {
	Properties        []PropertySummary `json:"properties"`
	Income            Total             `json:"income"`
	OperatingExpenses Total             `json:"operating_expenses"`
	DebtService       Total             `json:"debt_service"`
	NOI               Total             `json:"noi"`
	NetCashFlow       Total             `json:"net_cash_flow"`
	Value             Total             `json:"value"`
	DebtBalance       Total             `json:"debt_balance"`
	CashInvested      Total             `json:"cash_invested"`
	CapRate           float64           `json:"cap_rate"`
	LTV               float64           `json:"ltv"`
	CashOnCash        float64           `json:"cash_on_cash"`
}

// AggregatePortfolio totals the summaries. Cash-on-cash is total cash flow over total
// invested capital, which weights each property by its invested capital.
func AggregatePortfolio(summaries []PropertySummary) Portfolio {
	var income, opex, debt, value, balance, invested decimal.Decimal
	for _, s := range summaries {
		income = income.Add(decimal.NewFromFloat(s.Current.Income))
		opex = opex.Add(decimal.NewFromFloat(s.Current.OperatingExpenses))
		debt = debt.Add(decimal.NewFromFloat(s.Current.DebtService))
		value = value.Add(decimal.NewFromFloat(s.Value))
		balance = balance.Add(decimal.NewFromFloat(s.DebtBalance))
		invested = invested.Add(decimal.NewFromFloat(s.CashInvested))
	}
	noi := income.Sub(opex)
	out := Portfolio{
		Properties:        summaries,
		Income:            Total{income},
		OperatingExpenses: Total{opex},
		DebtService:       Total{debt},
		NOI:               Total{noi},
		NetCashFlow:       Total{noi.Sub(debt)},
		Value:             Total{value},
		DebtBalance:       Total{balance},
		CashInvested:      Total{invested},
	}

	out.CapRate = decimalRatio(noi, value)
	out.LTV = decimalRatio(balance, value)
	out.CashOnCash = decimalRatio(out.NetCashFlow.Decimal, invested)
	return out
}

func decimalRatio(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return num.Div(den).InexactFloat64()
}
