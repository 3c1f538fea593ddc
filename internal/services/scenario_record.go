package services

import (
	"time"

	"propvest/internal/forecast"
	"propvest/internal/models"
)

// newScenarioRecord converts an evaluated scenario into its persisted form.
func newScenarioRecord(ownerID, name string, createdAt time.Time, res *forecast.Result) *models.Scenario {
	f := res.Forecast
	a := res.Assumptions
	m := res.Metrics

	rec := &models.Scenario{
		OwnerID:       ownerID,
		PropertyID:    f.PropertyID,
		Name:          name,
		Mode:          a.Mode.String(),
		HoldingPeriod: f.HoldingPeriod,
		AsOf:          f.AsOf,
		Assumptions: models.ScenarioAssumptions{
			Name:              a.Name,
			RentGrowthRate:    a.RentGrowthRate,
			ExpenseGrowthRate: a.ExpenseGrowthRate,
			VacancyRate:       a.VacancyRate,
			AppreciationRate:  a.AppreciationRate,
			ExitCapRate:       a.ExitCapRate,
			RenewalRate:       a.RenewalRate,
			SellingCostPct:    a.SellingCost(),
		},
		InitialValue:             models.ToCents(f.InitialValue),
		InitialBalance:           models.ToCents(f.InitialBalance),
		CurrentBalance:           models.ToCents(f.CurrentBalance),
		CashInvested:             models.ToCents(m.CashInvested),
		IRR:                      m.IRR,
		IRRIterations:            m.IRRIterations,
		SaleProceeds:             models.ToCentsPtr(m.SaleProceeds),
		TotalProfit:              models.ToCentsPtr(m.TotalProfit),
		AverageAnnualEquityBuilt: models.ToCentsPtr(m.AverageAnnualEquityBuilt),
		CapRate:                  m.CapRate,
		LTV:                      m.LTV,
		CashOnCash:               m.CashOnCash,
		DSCR:                     m.DSCR,
		CreatedAt:                createdAt,
		Periods:                  make([]models.ScenarioPeriod, 0, len(f.Periods)),
	}
	for _, p := range f.Periods {
		rec.Periods = append(rec.Periods, models.ScenarioPeriod{
			Year:               p.Year,
			CalendarYear:       p.CalendarYear,
			GrossIncome:        models.ToCents(p.GrossIncome),
			OperatingExpenses:  models.ToCents(p.OperatingExpenses),
			NOI:                models.ToCents(p.NOI),
			DebtService:        models.ToCents(p.DebtService),
			PrincipalPaid:      models.ToCents(p.PrincipalPaid),
			InterestPaid:       models.ToCents(p.InterestPaid),
			NetCashFlow:        models.ToCents(p.NetCashFlow),
			CumulativeCashFlow: models.ToCents(p.CumulativeCashFlow),
			PropertyValue:      models.ToCentsPtr(p.PropertyValue),
			MortgageBalance:    models.ToCents(p.MortgageBalance),
			Equity:             models.ToCentsPtr(p.Equity),
		})
	}
	return rec
}

// snapshotFromRecord rebuilds the engine's view of a saved scenario. The
// year-to-date breakdown is not persisted and comes back empty.
func snapshotFromRecord(rec *models.Scenario) (forecast.Snapshot, error) {
	mode, err := forecast.ParseMode(rec.Mode)
	if err != nil {
		return forecast.Snapshot{}, err
	}
	sellingCost := rec.Assumptions.SellingCostPct
	a := forecast.AssumptionSet{
		Name:              rec.Assumptions.Name,
		Mode:              mode,
		RentGrowthRate:    rec.Assumptions.RentGrowthRate,
		ExpenseGrowthRate: rec.Assumptions.ExpenseGrowthRate,
		VacancyRate:       rec.Assumptions.VacancyRate,
		AppreciationRate:  rec.Assumptions.AppreciationRate,
		ExitCapRate:       rec.Assumptions.ExitCapRate,
		RenewalRate:       rec.Assumptions.RenewalRate,
		SellingCostPct:    &sellingCost,
	}

	f := &forecast.Forecast{
		PropertyID:     rec.PropertyID,
		Assumptions:    a,
		HoldingPeriod:  rec.HoldingPeriod,
		AsOf:           rec.AsOf,
		InitialValue:   models.FromCents(rec.InitialValue),
		InitialBalance: models.FromCents(rec.InitialBalance),
		CurrentBalance: models.FromCents(rec.CurrentBalance),
		Periods:        make([]forecast.Period, 0, len(rec.Periods)),
	}
	for _, p := range rec.Periods {
		f.Periods = append(f.Periods, forecast.Period{
			Year:               p.Year,
			CalendarYear:       p.CalendarYear,
			GrossIncome:        models.FromCents(p.GrossIncome),
			OperatingExpenses:  models.FromCents(p.OperatingExpenses),
			NOI:                models.FromCents(p.NOI),
			DebtService:        models.FromCents(p.DebtService),
			PrincipalPaid:      models.FromCents(p.PrincipalPaid),
			InterestPaid:       models.FromCents(p.InterestPaid),
			NetCashFlow:        models.FromCents(p.NetCashFlow),
			CumulativeCashFlow: models.FromCents(p.CumulativeCashFlow),
			PropertyValue:      models.FromCentsPtr(p.PropertyValue),
			MortgageBalance:    models.FromCents(p.MortgageBalance),
			Equity:             models.FromCentsPtr(p.Equity),
		})
	}

	return forecast.Snapshot{
		Name:          rec.Name,
		CreatedAt:     rec.CreatedAt,
		PropertyID:    rec.PropertyID,
		Assumptions:   a,
		HoldingPeriod: rec.HoldingPeriod,
		Mode:          mode,
		Forecast:      f,
		Metrics: forecast.Metrics{
			CashInvested:             models.FromCents(rec.CashInvested),
			IRR:                      rec.IRR,
			IRRIterations:            rec.IRRIterations,
			IRRConverged:             rec.IRR != nil,
			SaleProceeds:             models.FromCentsPtr(rec.SaleProceeds),
			TotalProfit:              models.FromCentsPtr(rec.TotalProfit),
			AverageAnnualEquityBuilt: models.FromCentsPtr(rec.AverageAnnualEquityBuilt),
			CapRate:                  rec.CapRate,
			LTV:                      rec.LTV,
			CashOnCash:               rec.CashOnCash,
			DSCR:                     rec.DSCR,
		},
	}, nil
}

// roundedResult gives a live result the cent precision of a saved scenario, so
// an unchanged input compares equal to its own baseline.
func roundedResult(res *forecast.Result) (forecast.Result, error) {
	snap, err := snapshotFromRecord(newScenarioRecord("", res.Name, time.Time{}, res))
	if err != nil {
		return forecast.Result{}, err
	}
	return snap.Result(), nil
}
