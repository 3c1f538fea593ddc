package forecast

import (
	"math"
	"strings"
	"time"
)

// Segment holds one set of annual cash-flow figures.
type Segment struct {
	Income            float64 `json:"income"`
	OperatingExpenses float64 `json:"operating_expenses"`
	DebtService       float64 `json:"debt_service"`
	NetCashFlow       float64 `json:"net_cash_flow"`
}

// NOI is income minus operating expenses.
func (s Segment) NOI() float64 { return s.Income - s.OperatingExpenses }

func (s Segment) withNetCashFlow() Segment {
	s.NetCashFlow = s.Income - s.OperatingExpenses - s.DebtService
	return s
}

// YearToDate splits the current calendar year into recorded actuals and a
// forecast for the months that have not elapsed yet.
type YearToDate struct {
	Year            int       `json:"year"`
	AsOf            time.Time `json:"as_of"`
	MonthsElapsed   int       `json:"months_elapsed"`
	MonthsRemaining int       `json:"months_remaining"`

	// A false flag means the metric had no records and is forecast for all twelve months.
	ActualIncome      bool `json:"actual_income"`
	ActualExpenses    bool `json:"actual_expenses"`
	ActualDebtService bool `json:"actual_debt_service"`

	// MonthlyExpenseRate is the rate extrapolated over the remaining months.
	MonthlyExpenseRate float64 `json:"monthly_expense_rate"`

	Actual   Segment `json:"actual"`
	Forecast Segment `json:"forecast"`
	Blended  Segment `json:"blended"`
}

type txKind int

const (
	kindExpense txKind = iota
	kindIncome
	kindMortgage
)

func classify(category string) txKind {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "mortgage"):
		return kindMortgage
	case strings.Contains(c, "rent"), strings.Contains(c, "income"):
		return kindIncome
	}
	return kindExpense
}

// monthsElapsed counts the whole months of the year before asOf's month, minimum one.
func monthsElapsed(asOf time.Time) int {
	m := int(asOf.Month()) - 1
	if m < 1 {
		return 1
	}
	return m
}

// Partition blends the property's recorded transactions for the elapsed part of
// asOf's year with a forecast for the remaining months.
//
// Actual records are taken from January 1 up to the end of the last elapsed month
// (never past asOf), so the two segments never cover the same month. Income is
// extrapolated at the monthly rent; expenses at the average monthly actual rate, or
// the static monthly estimate when nothing was recorded; debt service at the
// scheduled payments of debt, which may be nil for an all-cash property.
func Partition(p *Property, debt DebtSchedule, asOf time.Time) YearToDate {
	loc := asOf.Location()
	year := asOf.Year()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	nextJan1 := jan1.AddDate(1, 0, 0)

	elapsed := monthsElapsed(asOf)
	remaining := MonthsPerYear - elapsed
	cutoff := jan1.AddDate(0, elapsed, 0)

	end := cutoff
	dayAfter := time.Date(year, asOf.Month(), asOf.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	if dayAfter.Before(end) {
		end = dayAfter
	}

	ytd := YearToDate{
		Year:            year,
		AsOf:            asOf,
		MonthsElapsed:   elapsed,
		MonthsRemaining: remaining,
	}

	for _, tx := range p.ExpenseHistory {
		if tx.Date.Before(jan1) || !tx.Date.Before(end) {
			continue
		}
		amount := math.Abs(tx.Amount)
		switch classify(tx.Category) {
		case kindIncome:
			ytd.ActualIncome = true
			ytd.Actual.Income += amount
		case kindMortgage:
			ytd.ActualDebtService = true
			ytd.Actual.DebtService += amount
		default:
			ytd.ActualExpenses = true
			ytd.Actual.OperatingExpenses += amount
		}
	}

	rent := p.EffectiveMonthlyRent()
	if ytd.ActualIncome {
		ytd.Forecast.Income = rent * float64(remaining)
	} else {
		ytd.Forecast.Income = rent * MonthsPerYear
	}

	if ytd.ActualExpenses {
		// TODO: confirm with product whether the remainder should apply expense
		// growth instead of extrapolating the year-to-date average.
		ytd.MonthlyExpenseRate = ytd.Actual.OperatingExpenses / float64(elapsed)
		ytd.Forecast.OperatingExpenses = ytd.MonthlyExpenseRate * float64(remaining)
	} else {
		ytd.MonthlyExpenseRate = p.Expenses.Total()
		ytd.Forecast.OperatingExpenses = ytd.MonthlyExpenseRate * MonthsPerYear
	}

	if debt != nil {
		if ytd.ActualDebtService {
			ytd.Forecast.DebtService = debt.Between(cutoff, nextJan1).Payments
		} else {
			ytd.Forecast.DebtService = debt.Between(jan1, nextJan1).Payments
		}
	}

	ytd.Actual = ytd.Actual.withNetCashFlow()
	ytd.Forecast = ytd.Forecast.withNetCashFlow()
	ytd.Blended = Segment{
		Income:            ytd.Actual.Income + ytd.Forecast.Income,
		OperatingExpenses: ytd.Actual.OperatingExpenses + ytd.Forecast.OperatingExpenses,
		DebtService:       ytd.Actual.DebtService + ytd.Forecast.DebtService,
	}.withNetCashFlow()
	return ytd
}
