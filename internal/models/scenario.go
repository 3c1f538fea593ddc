package models

import (
	"time"

	"propvest/internal/uuid"

	"gorm.io/gorm"
)

// ScenarioAssumptions are the assumption-set columns of a saved scenario.
type ScenarioAssumptions struct {
	Name              string  `gorm:"not null" json:"name"`
	RentGrowthRate    float64 `gorm:"not null" json:"rent_growth_rate"`
	ExpenseGrowthRate float64 `gorm:"not null" json:"expense_growth_rate"`
	VacancyRate       float64 `gorm:"not null" json:"vacancy_rate"`
	AppreciationRate  float64 `gorm:"not null" json:"appreciation_rate"`
	ExitCapRate       float64 `gorm:"not null" json:"exit_cap_rate"`
	RenewalRate       float64 `gorm:"not null" json:"renewal_rate"`
	SellingCostPct    float64 `gorm:"not null" json:"selling_cost_pct"`
}

// Scenario is a named, timestamped snapshot of a forecast and its metrics.
// Scenarios are immutable: no Base embed, no updates, no soft deletes.
// Money columns hold int64 cents; rates are stored as fractions.
type Scenario struct {
	ID            string              `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID       string              `gorm:"not null;uniqueIndex:idx_scenario_identity" json:"owner_id"`
	PropertyID    string              `gorm:"not null;uniqueIndex:idx_scenario_identity;index" json:"property_id"`
	Name          string              `gorm:"not null;uniqueIndex:idx_scenario_identity" json:"name"`
	Mode          string              `gorm:"not null" json:"mode"`
	HoldingPeriod int                 `gorm:"not null" json:"holding_period"`
	AsOf          time.Time           `gorm:"not null" json:"as_of"`
	Assumptions   ScenarioAssumptions `gorm:"embedded;embeddedPrefix:assumption_" json:"assumptions"`

	InitialValue   int64 `gorm:"type:bigint;not null" json:"initial_value"`
	InitialBalance int64 `gorm:"type:bigint;not null" json:"initial_balance"`
	CurrentBalance int64 `gorm:"type:bigint;not null" json:"current_balance"`

	CashInvested             int64    `gorm:"type:bigint;not null" json:"cash_invested"`
	IRR                      *float64 `json:"irr"`
	IRRIterations            int      `json:"irr_iterations"`
	SaleProceeds             *int64   `gorm:"type:bigint" json:"sale_proceeds"`
	TotalProfit              *int64   `gorm:"type:bigint" json:"total_profit"`
	AverageAnnualEquityBuilt *int64   `gorm:"type:bigint" json:"average_annual_equity_built"`
	CapRate                  float64  `json:"cap_rate"`
	LTV                      float64  `json:"ltv"`
	CashOnCash               float64  `json:"cash_on_cash"`
	DSCR                     *float64 `json:"dscr"`

	CreatedAt time.Time        `gorm:"not null;uniqueIndex:idx_scenario_identity" json:"created_at"`
	Periods   []ScenarioPeriod `gorm:"foreignKey:ScenarioID;constraint:OnDelete:CASCADE" json:"periods,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *Scenario) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}

// ScenarioPeriod is one projected year of a saved scenario.
type ScenarioPeriod struct {
	ID                 string `gorm:"type:uuid;primaryKey" json:"id"`
	ScenarioID         string `gorm:"type:uuid;not null;uniqueIndex:idx_scenario_period_year" json:"scenario_id"`
	Year               int    `gorm:"not null;uniqueIndex:idx_scenario_period_year" json:"year"`
	CalendarYear       int    `gorm:"not null" json:"calendar_year"`
	GrossIncome        int64  `gorm:"type:bigint;not null" json:"gross_income"`
	OperatingExpenses  int64  `gorm:"type:bigint;not null" json:"operating_expenses"`
	NOI                int64  `gorm:"column:noi;type:bigint;not null" json:"noi"`
	DebtService        int64  `gorm:"type:bigint;not null" json:"debt_service"`
	PrincipalPaid      int64  `gorm:"type:bigint;not null" json:"principal_paid"`
	InterestPaid       int64  `gorm:"type:bigint;not null" json:"interest_paid"`
	NetCashFlow        int64  `gorm:"type:bigint;not null" json:"net_cash_flow"`
	CumulativeCashFlow int64  `gorm:"type:bigint;not null" json:"cumulative_cash_flow"`
	PropertyValue      *int64 `gorm:"type:bigint" json:"property_value"`
	MortgageBalance    int64  `gorm:"type:bigint;not null" json:"mortgage_balance"`
	Equity             *int64 `gorm:"type:bigint" json:"equity"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *ScenarioPeriod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// BaselinePin marks the saved scenario a property's live forecast is compared
// against. At most one pin exists per owner and property; the scenario itself is
// never modified by pinning.
type BaselinePin struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    string    `gorm:"not null;uniqueIndex:idx_baseline_property" json:"owner_id"`
	PropertyID string    `gorm:"not null;uniqueIndex:idx_baseline_property" json:"property_id"`
	ScenarioID string    `gorm:"type:uuid;not null;index" json:"scenario_id"`
	PinnedAt   time.Time `gorm:"not null" json:"pinned_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *BaselinePin) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
