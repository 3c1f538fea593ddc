package services

import (
	"context"
	"time"

	"propvest/internal/forecast"
	"propvest/internal/models"
	"propvest/internal/pagination"
)

// SensitivityRequest describes a sensitivity run. The base assumption set is
// varied by ±Delta on each of Fields; Alternates are evaluated as given.
type SensitivityRequest struct {
	Fields     []forecast.Field
	Delta      float64
	Alternates []forecast.AssumptionSet
}

// ForecastServicer defines the contract for forecast generation and metrics.
type ForecastServicer interface {
	Presets(mode *forecast.Mode) []forecast.AssumptionSet
	Evaluate(in forecast.Input) (*forecast.Result, error)
	Sensitivity(in forecast.Input, req SensitivityRequest) ([]forecast.Result, error)
}

// ScenarioServicer defines the contract for saved scenarios and baselines.
type ScenarioServicer interface {
	SaveScenario(ownerID, name string, in forecast.Input, ipAddress string) (*models.Scenario, error)
	GetScenarios(ownerID, propertyID string, page pagination.PageRequest) (*pagination.PageResponse[models.Scenario], error)
	GetScenarioByID(ownerID, scenarioID string) (*models.Scenario, error)
	PinBaseline(ownerID, scenarioID, ipAddress string) (*models.BaselinePin, error)
	UnpinBaseline(ownerID, propertyID, ipAddress string) error
	CompareWithBaseline(ownerID string, in forecast.Input) (*forecast.Comparison, error)
}

// PortfolioServicer defines the contract for portfolio aggregation.
type PortfolioServicer interface {
	Summarize(ctx context.Context, properties []forecast.Property, asOf time.Time) (*forecast.Portfolio, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ownerID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
