package handlers

import (
	"time"

	"propvest/internal/forecast"
)

// MortgageRequest is a mortgage as submitted by a client. Rates are fractions.
type MortgageRequest struct {
	Lender            string                   `json:"lender" binding:"max=100"`
	OriginalAmount    float64                  `json:"original_amount" binding:"gte=0"`
	InterestRate      float64                  `json:"interest_rate" binding:"rate_fraction"`
	RateType          string                   `json:"rate_type" binding:"rate_type"`
	TermMonths        int                      `json:"term_months" binding:"gte=0"`
	AmortizationYears int                      `json:"amortization_years" binding:"gte=0,max=50"`
	PaymentFrequency  string                   `json:"payment_frequency" binding:"payment_frequency"`
	StartDate         time.Time                `json:"start_date"`
	Details           forecast.MortgageDetails `json:"details"`
}

// PropertyRequest is a property snapshot as submitted by a client.
type PropertyRequest struct {
	ID                 string                   `json:"id" binding:"max=100"`
	Name               string                   `json:"name" binding:"max=200"`
	PurchasePrice      float64                  `json:"purchase_price" binding:"gte=0"`
	PurchaseDate       time.Time                `json:"purchase_date"`
	CurrentMarketValue float64                  `json:"current_market_value" binding:"gte=0"`
	Size               float64                  `json:"size" binding:"gte=0"`
	Units              []forecast.Unit          `json:"units"`
	MonthlyRent        float64                  `json:"monthly_rent" binding:"gte=0"`
	MonthlyExpenses    forecast.MonthlyExpenses `json:"monthly_expenses"`
	TotalInvestment    *float64                 `json:"total_investment" binding:"omitempty,gte=0"`
	ExpenseHistory     []forecast.Transaction   `json:"expense_history"`
	Mortgage           *MortgageRequest         `json:"mortgage"`
	Details            forecast.PropertyDetails `json:"details"`
}

// AssumptionsRequest overrides fields of the preset for Mode. Omitted rates keep
// the preset's value.
type AssumptionsRequest struct {
	Name              string   `json:"name" binding:"max=100"`
	Mode              string   `json:"mode" binding:"omitempty,analysis_mode"`
	RentGrowthRate    *float64 `json:"rent_growth_rate" binding:"omitempty,gt=-1,lt=1"`
	ExpenseGrowthRate *float64 `json:"expense_growth_rate" binding:"omitempty,gt=-1,lt=1"`
	VacancyRate       *float64 `json:"vacancy_rate" binding:"omitempty,rate_fraction"`
	AppreciationRate  *float64 `json:"appreciation_rate" binding:"omitempty,gt=-1,lt=1"`
	ExitCapRate       *float64 `json:"exit_cap_rate" binding:"omitempty,rate_fraction"`
	RenewalRate       *float64 `json:"renewal_rate" binding:"omitempty,rate_fraction"`
	SellingCostPct    *float64 `json:"selling_cost_pct" binding:"omitempty,rate_fraction"`
}

// ForecastRequest asks for a forecast of one property.
type ForecastRequest struct {
	Property      PropertyRequest     `json:"property"`
	Assumptions   *AssumptionsRequest `json:"assumptions"`
	HoldingPeriod int                 `json:"holding_period" binding:"required,min=1,max=50"`
	AsOf          *time.Time          `json:"as_of"`
}

// SensitivityRequest asks for the base forecast plus ±Delta variants of Fields
// and any explicit alternate assumption sets. With neither Fields nor
// Alternates every field is varied.
type SensitivityRequest struct {
	ForecastRequest
	Fields     []string             `json:"fields" binding:"dive,sensitivity_field"`
	Delta      float64              `json:"delta" binding:"omitempty,gt=0,lt=1"`
	Alternates []AssumptionsRequest `json:"alternates" binding:"dive"`
}

// SaveScenarioRequest saves a named forecast snapshot. The property id is required.
type SaveScenarioRequest struct {
	ForecastRequest
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// PortfolioRequest asks for current-year totals across properties.
type PortfolioRequest struct {
	Properties []PropertyRequest `json:"properties" binding:"max=500,dive"`
	AsOf       *time.Time        `json:"as_of"`
}

// defaultSensitivityDelta is used when a sensitivity request omits delta.
const defaultSensitivityDelta = 0.01

func (r *MortgageRequest) toMortgage() *forecast.Mortgage {
	if r == nil {
		return nil
	}
	return &forecast.Mortgage{
		Lender:            r.Lender,
		OriginalAmount:    r.OriginalAmount,
		InterestRate:      r.InterestRate,
		RateType:          forecast.RateType(r.RateType),
		TermMonths:        r.TermMonths,
		AmortizationYears: r.AmortizationYears,
		PaymentFrequency:  forecast.PaymentFrequency(r.PaymentFrequency),
		StartDate:         r.StartDate,
		Details:           r.Details,
	}
}

func (r *PropertyRequest) toProperty() *forecast.Property {
	return &forecast.Property{
		ID:                 r.ID,
		Name:               r.Name,
		PurchasePrice:      r.PurchasePrice,
		PurchaseDate:       r.PurchaseDate,
		CurrentMarketValue: r.CurrentMarketValue,
		Size:               r.Size,
		Units:              r.Units,
		MonthlyRent:        r.MonthlyRent,
		Expenses:           r.MonthlyExpenses,
		TotalInvestment:    r.TotalInvestment,
		ExpenseHistory:     r.ExpenseHistory,
		Mortgage:           r.Mortgage.toMortgage(),
		Details:            r.Details,
	}
}

func (r *AssumptionsRequest) toAssumptions() forecast.AssumptionSet {
	if r == nil {
		return forecast.DefaultAssumptions(forecast.ModeCashFlow)
	}
	// Mode is validated by binding; an unparsable value cannot reach here.
	mode, _ := forecast.ParseMode(r.Mode)
	a := forecast.DefaultAssumptions(mode)
	if r.Name != "" {
		a.Name = r.Name
	}
	overlay(&a.RentGrowthRate, r.RentGrowthRate)
	overlay(&a.ExpenseGrowthRate, r.ExpenseGrowthRate)
	overlay(&a.VacancyRate, r.VacancyRate)
	overlay(&a.AppreciationRate, r.AppreciationRate)
	overlay(&a.ExitCapRate, r.ExitCapRate)
	overlay(&a.RenewalRate, r.RenewalRate)
	if r.SellingCostPct != nil {
		pct := *r.SellingCostPct
		a.SellingCostPct = &pct
	}
	return a
}

// toAlternate converts the i-th alternate of a sensitivity request. An unnamed
// alternate is named by its position so it cannot collide with the base preset.
func (r *AssumptionsRequest) toAlternate(i int) forecast.AssumptionSet {
	a := r.toAssumptions()
	if r.Name == "" {
		a.Name = forecast.AlternateName(i)
	}
	return a
}

func overlay(dst, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func (r *ForecastRequest) toInput() forecast.Input {
	in := forecast.Input{
		Property:      r.Property.toProperty(),
		Assumptions:   r.Assumptions.toAssumptions(),
		HoldingPeriod: r.HoldingPeriod,
	}
	if r.AsOf != nil {
		in.AsOf = *r.AsOf
	}
	return in
}
