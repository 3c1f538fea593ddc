package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"propvest/internal/forecast"
	"propvest/internal/middleware"
	"propvest/internal/models"
	"propvest/internal/pagination"
	"propvest/internal/services"
	"propvest/internal/validator"
)

// --- mock services ---

type mockForecastService struct {
	presetsFn     func(mode *forecast.Mode) []forecast.AssumptionSet
	evaluateFn    func(in forecast.Input) (*forecast.Result, error)
	sensitivityFn func(in forecast.Input, req services.SensitivityRequest) ([]forecast.Result, error)
}

func (m *mockForecastService) Presets(mode *forecast.Mode) []forecast.AssumptionSet {
	if m.presetsFn != nil {
		return m.presetsFn(mode)
	}
	return nil
}

func (m *mockForecastService) Evaluate(in forecast.Input) (*forecast.Result, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(in)
	}
	return &forecast.Result{}, nil
}

func (m *mockForecastService) Sensitivity(in forecast.Input, req services.SensitivityRequest) ([]forecast.Result, error) {
	if m.sensitivityFn != nil {
		return m.sensitivityFn(in, req)
	}
	return []forecast.Result{}, nil
}

var _ services.ForecastServicer = (*mockForecastService)(nil)

type mockScenarioService struct {
	saveScenarioFn        func(ownerID, name string, in forecast.Input, ip string) (*models.Scenario, error)
	getScenariosFn        func(ownerID, propertyID string, page pagination.PageRequest) (*pagination.PageResponse[models.Scenario], error)
	getScenarioByIDFn     func(ownerID, scenarioID string) (*models.Scenario, error)
	pinBaselineFn         func(ownerID, scenarioID, ip string) (*models.BaselinePin, error)
	unpinBaselineFn       func(ownerID, propertyID, ip string) error
	compareWithBaselineFn func(ownerID string, in forecast.Input) (*forecast.Comparison, error)
}

func (m *mockScenarioService) SaveScenario(ownerID, name string, in forecast.Input, ip string) (*models.Scenario, error) {
	if m.saveScenarioFn != nil {
		return m.saveScenarioFn(ownerID, name, in, ip)
	}
	return &models.Scenario{}, nil
}

func (m *mockScenarioService) GetScenarios(ownerID, propertyID string, page pagination.PageRequest) (*pagination.PageResponse[models.Scenario], error) {
	if m.getScenariosFn != nil {
		return m.getScenariosFn(ownerID, propertyID, page)
	}
	resp := pagination.NewPageResponse([]models.Scenario{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockScenarioService) GetScenarioByID(ownerID, scenarioID string) (*models.Scenario, error) {
	if m.getScenarioByIDFn != nil {
		return m.getScenarioByIDFn(ownerID, scenarioID)
	}
	return &models.Scenario{}, nil
}

func (m *mockScenarioService) PinBaseline(ownerID, scenarioID, ip string) (*models.BaselinePin, error) {
	if m.pinBaselineFn != nil {
		return m.pinBaselineFn(ownerID, scenarioID, ip)
	}
	return &models.BaselinePin{}, nil
}

func (m *mockScenarioService) UnpinBaseline(ownerID, propertyID, ip string) error {
	if m.unpinBaselineFn != nil {
		return m.unpinBaselineFn(ownerID, propertyID, ip)
	}
	return nil
}

func (m *mockScenarioService) CompareWithBaseline(ownerID string, in forecast.Input) (*forecast.Comparison, error) {
	if m.compareWithBaselineFn != nil {
		return m.compareWithBaselineFn(ownerID, in)
	}
	return &forecast.Comparison{}, nil
}

var _ services.ScenarioServicer = (*mockScenarioService)(nil)

type mockPortfolioService struct {
	summarizeFn func(ctx context.Context, properties []forecast.Property, asOf time.Time) (*forecast.Portfolio, error)
}

func (m *mockPortfolioService) Summarize(ctx context.Context, properties []forecast.Property, asOf time.Time) (*forecast.Portfolio, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, properties, asOf)
	}
	return &forecast.Portfolio{}, nil
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectOwnerID(ownerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.OwnerIDKey, ownerID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]any, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

const forecastBody = `{
	"property": {
		"id": "prop-1",
		"purchase_price": 400000,
		"purchase_date": "2019-06-01T00:00:00Z",
		"current_market_value": 500000,
		"monthly_rent": 2000,
		"monthly_expenses": {"property_tax": 300, "insurance": 100},
		"mortgage": {
			"original_amount": 300000,
			"interest_rate": 0.03,
			"rate_type": "fixed",
			"term_months": 60,
			"amortization_years": 25,
			"payment_frequency": "monthly",
			"start_date": "2020-01-01T00:00:00Z"
		}
	},
	"assumptions": {"mode": "equity", "exit_cap_rate": 0.06},
	"holding_period": 10,
	"as_of": "2024-07-01T00:00:00Z"
}`
