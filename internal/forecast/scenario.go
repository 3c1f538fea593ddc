package forecast

import (
	"fmt"
	"strconv"
	"time"

	apperrors "propvest/internal/errors"
)

// Field names an assumption that a sensitivity run can vary.
type Field string

const (
	FieldRentGrowth    Field = "rent_growth"
	FieldExpenseGrowth Field = "expense_growth"
	FieldVacancy       Field = "vacancy"
	FieldAppreciation  Field = "appreciation"
	FieldExitCap       Field = "exit_cap"
	FieldRenewalRate   Field = "renewal_rate"
)

// Fields lists every Field in display order.
var Fields = []Field{FieldRentGrowth, FieldExpenseGrowth, FieldVacancy, FieldAppreciation, FieldExitCap, FieldRenewalRate}

// Valid reports whether f names a known assumption.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

func (f Field) target(a *AssumptionSet) *float64 {
	switch f {
	case FieldRentGrowth:
		return &a.RentGrowthRate
	case FieldExpenseGrowth:
		return &a.ExpenseGrowthRate
	case FieldVacancy:
		return &a.VacancyRate
	case FieldAppreciation:
		return &a.AppreciationRate
	case FieldExitCap:
		return &a.ExitCapRate
	case FieldRenewalRate:
		return &a.RenewalRate
	}
	return nil
}

// Perturb returns a copy of base with field moved by delta and a name describing
// the change, e.g. "rent_growth+1%". Rates that cannot go negative are floored at 0.
func Perturb(base AssumptionSet, field Field, delta float64) AssumptionSet {
	out := base
	v := field.target(&out)
	if v == nil {
		return out
	}
	*v += delta
	if *v < 0 && field != FieldRentGrowth && field != FieldExpenseGrowth && field != FieldAppreciation {
		*v = 0
	}
	out.Name = string(field) + signedPercent(delta)
	return out
}

func signedPercent(delta float64) string {
	s := strconv.FormatFloat(delta*100, 'f', -1, 64)
	if delta >= 0 {
		s = "+" + s
	}
	return s + "%"
}

// Sensitivity returns base followed by a +delta and a -delta variant for every field.
// Unknown fields are skipped.
func Sensitivity(base AssumptionSet, fields []Field, delta float64) []AssumptionSet {
	sets := make([]AssumptionSet, 0, 1+2*len(fields))
	sets = append(sets, base)
	for _, f := range fields {
		if !f.Valid() {
			continue
		}
		sets = append(sets, Perturb(base, f, delta), Perturb(base, f, -delta))
	}
	return sets
}

// Result is one evaluated scenario.
type Result struct {
	Name        string        `json:"name"`
	Assumptions AssumptionSet `json:"assumptions"`
	Forecast    *Forecast     `json:"forecast"`
	Metrics     Metrics       `json:"metrics"`
}

// AlternateName is the name given to the i-th (zero-based) unnamed alternate
// assumption set of a sensitivity run.
func AlternateName(i int) string {
	return fmt.Sprintf("alternate-%d", i+1)
}

// Evaluate generates the forecast of in and its metrics.
func Evaluate(in Input, opts MetricsOptions) (Result, error) {
	f, err := Generate(in)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Name:        in.Assumptions.Name,
		Assumptions: in.Assumptions,
		Forecast:    f,
		Metrics:     CalculateMetrics(in.Property, f, opts),
	}, nil
}

// RunScenarios evaluates in once per assumption set. Sets are keyed by name, so
// names must be unique. Nothing is computed when any set is invalid.
func RunScenarios(in Input, sets []AssumptionSet, opts MetricsOptions) ([]Result, error) {
	seen := make(map[string]struct{}, len(sets))
	for _, a := range sets {
		if _, dup := seen[a.Name]; dup {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateScenario,
				fmt.Sprintf("Scenario %q appears more than once", a.Name))
		}
		seen[a.Name] = struct{}{}
		if err := ValidateAssumptions(a); err != nil {
			return nil, err
		}
	}

	results := make([]Result, 0, len(sets))
	for _, a := range sets {
		run := in
		run.Assumptions = a
		r, err := Evaluate(run, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// PeriodDelta is live minus baseline for one year. Pointer deltas are nil when
// either side is undefined.
type PeriodDelta struct {
	Year               int      `json:"year"`
	GrossIncome        float64  `json:"gross_income"`
	NOI                float64  `json:"noi"`
	NetCashFlow        float64  `json:"net_cash_flow"`
	CumulativeCashFlow float64  `json:"cumulative_cash_flow"`
	MortgageBalance    float64  `json:"mortgage_balance"`
	PropertyValue      *float64 `json:"property_value"`
	Equity             *float64 `json:"equity"`
}

// MetricsDelta is live minus baseline for the return metrics.
type MetricsDelta struct {
	IRR                      *float64 `json:"irr"`
	TotalProfit              *float64 `json:"total_profit"`
	AverageAnnualEquityBuilt *float64 `json:"average_annual_equity_built"`
	CapRate                  float64  `json:"cap_rate"`
	LTV                      float64  `json:"ltv"`
	CashOnCash               float64  `json:"cash_on_cash"`
}

// Comparison sets a live scenario against a baseline.
type Comparison struct {
	Baseline string        `json:"baseline"`
	Live     string        `json:"live"`
	Periods  []PeriodDelta `json:"periods"`
	Metrics  MetricsDelta  `json:"metrics"`
}

// Compare diffs live against baseline over the years both cover. Neither input is
// modified.
func Compare(baseline, live Result) Comparison {
	c := Comparison{Baseline: baseline.Name, Live: live.Name}
	if baseline.Forecast != nil && live.Forecast != nil {
		n := min(len(baseline.Forecast.Periods), len(live.Forecast.Periods))
		c.Periods = make([]PeriodDelta, n)
		for i := 0; i < n; i++ {
			b, l := baseline.Forecast.Periods[i], live.Forecast.Periods[i]
			c.Periods[i] = PeriodDelta{
				Year:               l.Year,
				GrossIncome:        l.GrossIncome - b.GrossIncome,
				NOI:                l.NOI - b.NOI,
				NetCashFlow:        l.NetCashFlow - b.NetCashFlow,
				CumulativeCashFlow: l.CumulativeCashFlow - b.CumulativeCashFlow,
				MortgageBalance:    l.MortgageBalance - b.MortgageBalance,
				PropertyValue:      diff(l.PropertyValue, b.PropertyValue),
				Equity:             diff(l.Equity, b.Equity),
			}
		}
	}
	bm, lm := baseline.Metrics, live.Metrics
	c.Metrics = MetricsDelta{
		IRR:                      diff(lm.IRR, bm.IRR),
		TotalProfit:              diff(lm.TotalProfit, bm.TotalProfit),
		AverageAnnualEquityBuilt: diff(lm.AverageAnnualEquityBuilt, bm.AverageAnnualEquityBuilt),
		CapRate:                  lm.CapRate - bm.CapRate,
		LTV:                      lm.LTV - bm.LTV,
		CashOnCash:               lm.CashOnCash - bm.CashOnCash,
	}
	return c
}

func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return floatPtr(*a - *b)
}

// Snapshot is a named, timestamped capture of a scenario. Two snapshots with the
// same name are distinct as long as their creation times differ.
type Snapshot struct {
	Name          string        `json:"name"`
	CreatedAt     time.Time     `json:"created_at"`
	PropertyID    string        `json:"property_id"`
	Assumptions   AssumptionSet `json:"assumptions"`
	HoldingPeriod int           `json:"holding_period"`
	Mode          Mode          `json:"mode"`
	Forecast      *Forecast     `json:"forecast"`
	Metrics       Metrics       `json:"metrics"`
}

// NewSnapshot captures r under name at createdAt.
func NewSnapshot(name string, createdAt time.Time, r Result) Snapshot {
	s := Snapshot{
		Name:        name,
		CreatedAt:   createdAt,
		Assumptions: r.Assumptions,
		Mode:        r.Assumptions.Mode,
		Forecast:    r.Forecast,
		Metrics:     r.Metrics,
	}
	if r.Forecast != nil {
		s.PropertyID = r.Forecast.PropertyID
		s.HoldingPeriod = r.Forecast.HoldingPeriod
	}
	return s
}

// Key identifies the snapshot among others of the same property.
func (s Snapshot) Key() string {
	return s.Name + "@" + s.CreatedAt.UTC().Format(time.RFC3339Nano)
}

// Result returns the snapshot as a comparable scenario result.
func (s Snapshot) Result() Result {
	return Result{Name: s.Name, Assumptions: s.Assumptions, Forecast: s.Forecast, Metrics: s.Metrics}
}
