package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"propvest/internal/logger"
	"propvest/internal/models"
	"propvest/internal/server"
	"propvest/internal/services"
	"propvest/internal/testutil"
	"propvest/internal/validator"
)

const (
	testJWTSecret  = "integration-secret"
	testServiceKey = "integration-service-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupApp wires the real router over an isolated database.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	router := server.NewRouter(db, server.Options{
		JWTSecret:  testJWTSecret,
		ServiceKey: testServiceKey,
		Forecast:   services.ForecastOptions{},
	})
	return &testApp{DB: db, Router: router}
}

// tokenFor signs an access token for ownerID.
func tokenFor(t *testing.T, ownerID string) string {
	t.Helper()
	return testutil.AccessToken(t, ownerID, testJWTSecret)
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	return app.requestWithHeaders(method, path, body, map[string]string{"Authorization": "Bearer " + token})
}

func (app *testApp) requestWithHeaders(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// forecastJSON is a request for a mortgaged duplex; extra is spliced into the
// request object.
func forecastJSON(propertyID, extra string) string {
	return fmt.Sprintf(`{
		"property": {
			"id": %q,
			"name": "Maple Duplex",
			"purchase_price": 400000,
			"purchase_date": "2019-06-01T00:00:00Z",
			"current_market_value": 500000,
			"monthly_rent": 2000,
			"monthly_expenses": {"property_tax": 300, "insurance": 100, "maintenance": 100},
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
		"holding_period": 10,
		"as_of": "2024-07-01T00:00:00Z"%s
	}`, propertyID, extra)
}
