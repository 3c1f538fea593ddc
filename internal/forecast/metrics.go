package forecast

// Metrics summarizes the return profile of one forecast.
//
// Pointer fields are nil when the figure is undefined for the forecast, most often
// because the terminal value could not be capitalized. The plain ratios fall back to
// 0 when their denominator is zero.
type Metrics struct {
	CashInvested float64 `json:"cash_invested"`

	IRR           *float64 `json:"irr"`
	IRRIterations int      `json:"irr_iterations"`
	IRRConverged  bool     `json:"irr_converged"`

	SaleProceeds             *float64 `json:"sale_proceeds"`
	TotalProfit              *float64 `json:"total_profit"`
	AverageAnnualEquityBuilt *float64 `json:"average_annual_equity_built"`

	CapRate    float64  `json:"cap_rate"`
	LTV        float64  `json:"ltv"`
	CashOnCash float64  `json:"cash_on_cash"`
	DSCR       *float64 `json:"dscr"`
}

// MetricsOptions tunes CalculateMetrics.
type MetricsOptions struct {
	// SellingCostPct overrides the forecast's assumption when set.
	SellingCostPct *float64
	Solver         SolverOptions
}

func sellingCost(f *Forecast, opts MetricsOptions) float64 {
	if opts.SellingCostPct != nil {
		return *opts.SellingCostPct
	}
	return f.Assumptions.SellingCost()
}

// CalculateMetrics derives the return metrics of f for property p.
//
// The IRR cash flows are the negated invested capital at time zero, each year's net
// cash flow, and the terminal year's net sale proceeds added to its cash flow. Net
// sale proceeds are the terminal value less selling costs less the terminal mortgage
// balance.
func CalculateMetrics(p *Property, f *Forecast, opts MetricsOptions) Metrics {
	m := Metrics{CashInvested: p.CashInvested()}
	if f == nil || len(f.Periods) == 0 {
		return m
	}
	first := f.Periods[0]
	final := f.Final()

	m.CapRate = ratioOrZero(first.NOI, f.InitialValue)
	m.LTV = ratioOrZero(f.CurrentBalance, f.InitialValue)
	m.CashOnCash = ratioOrZero(first.NetCashFlow, m.CashInvested)
	m.DSCR = ratio(first.NOI, first.DebtService)

	if final.PropertyValue == nil || final.Equity == nil {
		return m
	}

	proceeds := *final.PropertyValue*(1-sellingCost(f, opts)) - final.MortgageBalance
	m.SaleProceeds = floatPtr(proceeds)
	m.TotalProfit = floatPtr(final.CumulativeCashFlow + proceeds - m.CashInvested)

	initialEquity := f.InitialValue - f.InitialBalance
	m.AverageAnnualEquityBuilt = floatPtr((*final.Equity - initialEquity) / float64(len(f.Periods)))

	flows := make([]float64, 0, len(f.Periods)+1)
	flows = append(flows, -m.CashInvested)
	for _, period := range f.Periods {
		flows = append(flows, period.NetCashFlow)
	}
	flows[len(flows)-1] += proceeds

	res := SolveIRR(flows, opts.Solver)
	m.IRRIterations = res.Iterations
	m.IRRConverged = res.Converged
	if res.Converged {
		m.IRR = floatPtr(res.Rate)
	}
	return m
}

// ratio returns num/den, or nil when den is zero.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	r := num / den
	if !finite(r) {
		return nil
	}
	return &r
}

func ratioOrZero(num, den float64) float64 {
	if r := ratio(num, den); r != nil {
		return *r
	}
	return 0
}
