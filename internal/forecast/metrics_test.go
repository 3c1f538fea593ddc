package forecast

import (
	"testing"
	"time"
)

// oneYearForecast is a hand-built forecast of a property bought for $400,000 and
// worth $450,000 after one year, with $20,000 of cash flow.
func oneYearForecast() (*Property, *Forecast) {
	invested := 50000.0
	p := &Property{
		ID:                 "prop-1",
		PurchasePrice:      400000,
		CurrentMarketValue: 420000,
		TotalInvestment:    &invested,
	}
	f := &Forecast{
		PropertyID:     "prop-1",
		Assumptions:    flatAssumptions(),
		HoldingPeriod:  1,
		InitialValue:   420000,
		InitialBalance: 350000,
		CurrentBalance: 350000,
		Periods: []Period{{
			Year:               1,
			GrossIncome:        40000,
			OperatingExpenses:  5000,
			NOI:                35000,
			DebtService:        15000,
			NetCashFlow:        20000,
			CumulativeCashFlow: 20000,
			PropertyValue:      floatPtr(450000),
			MortgageBalance:    340000,
			Equity:             floatPtr(110000),
		}},
	}
	return p, f
}

func TestCalculateMetrics(t *testing.T) {
	t.Run("total_profit", func(t *testing.T) {
		p, f := oneYearForecast()
		m := CalculateMetrics(p, f, MetricsOptions{})

		// 450,000 x 0.95 - 340,000 = 87,500 of net sale proceeds
		assertClose(t, "sale proceeds", *m.SaleProceeds, 87500, 1e-6)
		assertClose(t, "total profit", *m.TotalProfit, 20000+87500-50000, 1e-6)
	})

	t.Run("irr_includes_sale_proceeds", func(t *testing.T) {
		p, f := oneYearForecast()
		m := CalculateMetrics(p, f, MetricsOptions{})
		if m.IRR == nil {
			t.Fatalf("expected an IRR after %d iterations", m.IRRIterations)
		}
		assertClose(t, "irr", *m.IRR, 107500.0/50000-1, 1e-6)
	})

	t.Run("selling_cost_override", func(t *testing.T) {
		p, f := oneYearForecast()
		zero := 0.0
		m := CalculateMetrics(p, f, MetricsOptions{SellingCostPct: &zero})
		assertClose(t, "sale proceeds", *m.SaleProceeds, 110000, 1e-6)
	})

	t.Run("ratios", func(t *testing.T) {
		p, f := oneYearForecast()
		m := CalculateMetrics(p, f, MetricsOptions{})
		assertClose(t, "cap rate", m.CapRate, 35000.0/420000, 1e-12)
		assertClose(t, "ltv", m.LTV, 350000.0/420000, 1e-12)
		assertClose(t, "cash on cash", m.CashOnCash, 20000.0/50000, 1e-12)
		assertClose(t, "dscr", *m.DSCR, 35000.0/15000, 1e-12)
	})

	t.Run("average_annual_equity_built", func(t *testing.T) {
		p, f := oneYearForecast()
		m := CalculateMetrics(p, f, MetricsOptions{})
		// initial equity 70,000, final 110,000
		assertClose(t, "equity built", *m.AverageAnnualEquityBuilt, 40000, 1e-6)
	})

	t.Run("zero_value_and_investment_fall_back_to_zero", func(t *testing.T) {
		p, f := oneYearForecast()
		zero := 0.0
		p.TotalInvestment = &zero
		p.PurchasePrice = 0
		f.InitialValue = 0
		m := CalculateMetrics(p, f, MetricsOptions{})
		if m.CapRate != 0 || m.LTV != 0 || m.CashOnCash != 0 {
			t.Errorf("expected zero ratios, got cap=%f ltv=%f coc=%f", m.CapRate, m.LTV, m.CashOnCash)
		}
	})

	t.Run("no_debt_leaves_dscr_undefined", func(t *testing.T) {
		p, f := oneYearForecast()
		f.Periods[0].DebtService = 0
		if m := CalculateMetrics(p, f, MetricsOptions{}); m.DSCR != nil {
			t.Errorf("expected nil DSCR, got %f", *m.DSCR)
		}
	})

	t.Run("undefined_terminal_value", func(t *testing.T) {
		a := flatAssumptions()
		a.Mode = ModeEquity
		p := mortgagedProperty()
		f, err := Generate(Input{Property: p, Assumptions: a, HoldingPeriod: 5, AsOf: date(2024, time.March, 1)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := CalculateMetrics(p, f, MetricsOptions{})
		if m.IRR != nil || m.TotalProfit != nil || m.AverageAnnualEquityBuilt != nil {
			t.Errorf("expected undefined IRR and profit, got irr=%v profit=%v", m.IRR, m.TotalProfit)
		}
		if m.CapRate == 0 {
			t.Error("current-year ratios must still be reported")
		}
	})

	t.Run("invested_defaults_to_down_payment", func(t *testing.T) {
		p := mortgagedProperty()
		if got := p.CashInvested(); got != 100000 {
			t.Errorf("expected 100000, got %f", got)
		}
	})

	t.Run("irr_rises_with_appreciation", func(t *testing.T) {
		p := mortgagedProperty()
		prev := -1.0
		for _, appreciation := range []float64{0, 0.02, 0.04, 0.06} {
			a := DefaultAssumptions(ModeCashFlow)
			a.AppreciationRate = appreciation
			f, err := Generate(Input{Property: p, Assumptions: a, HoldingPeriod: 10, AsOf: date(2024, time.March, 1)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			m := CalculateMetrics(p, f, MetricsOptions{})
			if m.IRR == nil {
				t.Fatalf("appreciation %f: no IRR", appreciation)
			}
			if *m.IRR <= prev {
				t.Errorf("appreciation %f: irr %f did not increase from %f", appreciation, *m.IRR, prev)
			}
			prev = *m.IRR
		}
	})
}
