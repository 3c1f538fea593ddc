package forecast

import (
	"math"
	"time"
)

// debtTrack follows a mortgage across forecast years, renewing it at the first
// year boundary after each fixed term ends.
type debtTrack struct {
	mortgage    *Mortgage
	renewalRate float64
	origin      time.Time
	schedule    *Schedule
	termEnd     time.Time // zero when the loan never renews
	renewals    int
}

// mortgageStart is the date a mortgage without its own start date is assumed to begin.
func mortgageStart(p *Property, asOf time.Time) time.Time {
	if p.Mortgage != nil && !p.Mortgage.StartDate.IsZero() {
		return p.Mortgage.StartDate
	}
	if !p.PurchaseDate.IsZero() {
		return p.PurchaseDate
	}
	return time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location())
}

func newDebtTrack(p *Property, renewalRate float64, asOf time.Time) *debtTrack {
	start := mortgageStart(p, asOf)
	t := &debtTrack{
		mortgage:    p.Mortgage,
		renewalRate: renewalRate,
		origin:      start,
		schedule:    ScheduleFor(p.Mortgage, start),
	}
	m := p.Mortgage
	switch {
	case t.schedule.empty():
	case m.Details.RenewalDate != nil && m.Details.RenewalDate.After(start):
		t.termEnd = *m.Details.RenewalDate
	case m.TermMonths > 0 && m.TermMonths < m.AmortizationMonths():
		t.termEnd = start.AddDate(0, m.TermMonths, 0)
	}
	return t
}

// renewAt replaces the schedule at yearStart when the current term ended on or
// before it. The new loan carries the balance outstanding at yearStart, the renewal
// rate and what is left of the original amortization. It is anchored on the last
// payment made under the old term so the payment cadence carries on unchanged.
func (t *debtTrack) renewAt(yearStart time.Time) {
	if t.termEnd.IsZero() || t.termEnd.After(yearStart) {
		return
	}
	paid := t.schedule.PaymentsBefore(yearStart)
	anchor := t.schedule.DueDate(paid)
	balance := t.balanceAt(yearStart)
	remaining := t.mortgage.AmortizationMonths() - wholeMonthsBetween(t.origin, anchor)
	if balance <= 0 || remaining <= 0 {
		t.schedule = &Schedule{start: anchor}
		t.termEnd = time.Time{}
		return
	}
	t.schedule = NewSchedule(balance, t.renewalRate, remaining, t.mortgage.PaymentFrequency, anchor)
	t.termEnd = time.Time{}
	if term := t.mortgage.TermMonths; term > 0 && term < remaining {
		t.termEnd = yearStart.AddDate(0, term, 0)
	}
	t.renewals++
}

func (t *debtTrack) balanceAt(at time.Time) float64 {
	if t.schedule.empty() {
		return 0
	}
	if at.Before(t.schedule.Start()) && t.renewals == 0 {
		// loan not drawn yet
		return 0
	}
	return t.schedule.BalanceAfter(t.schedule.PaymentsBefore(at))
}

func wholeMonthsBetween(from, to time.Time) int {
	if !from.Before(to) {
		return 0
	}
	months := (to.Year()-from.Year())*MonthsPerYear + int(to.Month()-from.Month())
	if from.AddDate(0, months, 0).After(to) {
		months--
	}
	return months
}

// Generate projects the property over the holding period. Years are computed in
// order, each from the previous year's state. Year 1 is the calendar year of
// in.AsOf and is seeded from the blended actual and forecast figures of Partition.
//
// In equity mode the terminal value capitalizes the last year's NOI at the exit cap
// rate. When that value cannot be computed (exit cap rate of zero), the terminal
// period reports nil value and equity while every earlier period stays intact.
func Generate(in Input) (*Forecast, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := in.Property
	a := in.Assumptions
	loc := in.AsOf.Location()
	jan1 := time.Date(in.AsOf.Year(), time.January, 1, 0, 0, 0, 0, loc)

	debt := newDebtTrack(p, a.RenewalRate, in.AsOf)
	debt.renewAt(jan1)
	ytd := Partition(p, debt.schedule, in.AsOf)

	f := &Forecast{
		PropertyID:     p.ID,
		Assumptions:    a,
		HoldingPeriod:  in.HoldingPeriod,
		AsOf:           in.AsOf,
		YearToDate:     ytd,
		InitialValue:   p.StartingValue(),
		InitialBalance: debt.balanceAt(jan1),
		CurrentBalance: debt.balanceAt(in.AsOf),
		Periods:        make([]Period, 0, in.HoldingPeriod),
	}

	income := ytd.Blended.Income
	expenses := ytd.Blended.OperatingExpenses
	value := f.InitialValue
	var cumulative float64

	for y := 1; y <= in.HoldingPeriod; y++ {
		yearStart := jan1.AddDate(y-1, 0, 0)
		yearEnd := jan1.AddDate(y, 0, 0)

		if y > 1 {
			income *= (1 + a.RentGrowthRate) * (1 - a.VacancyRate)
			expenses *= 1 + a.ExpenseGrowthRate
			debt.renewAt(yearStart)
		}

		service := debt.schedule.Between(yearStart, yearEnd)
		noi := income - expenses
		ncf := noi - service.Payments
		cumulative += ncf

		period := Period{
			Year:               y,
			CalendarYear:       yearStart.Year(),
			GrossIncome:        income,
			OperatingExpenses:  expenses,
			NOI:                noi,
			DebtService:        service.Payments,
			PrincipalPaid:      service.Principal,
			InterestPaid:       service.Interest,
			NetCashFlow:        ncf,
			CumulativeCashFlow: cumulative,
			MortgageBalance:    debt.balanceAt(yearEnd),
		}

		value *= 1 + a.AppreciationRate
		terminal := y == in.HoldingPeriod
		if terminal && a.Mode == ModeEquity {
			if v, ok := capitalize(noi, a.ExitCapRate); ok {
				period.PropertyValue = floatPtr(v)
			}
		} else if finite(value) {
			period.PropertyValue = floatPtr(value)
		}
		if period.PropertyValue != nil {
			period.Equity = floatPtr(*period.PropertyValue - period.MortgageBalance)
		}

		f.Periods = append(f.Periods, period)
	}
	return f, nil
}

// capitalize values an income stream at a cap rate. It reports false when the
// value is undefined.
func capitalize(noi, capRate float64) (float64, bool) {
	if capRate <= 0 {
		return 0, false
	}
	v := noi / capRate
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0 {
		return 0, true
	}
	return v, true
}
