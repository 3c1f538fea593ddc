package integration

import (
	"math"
	"net/http"
	"strings"
	"testing"
)

func replaceOnce(s, old, repl string) string {
	return strings.Replace(s, old, repl, 1)
}

func TestScenarioFlow(t *testing.T) {
	app := setupApp(t)
	token := tokenFor(t, "owner-1")

	// Save two snapshots of the same property.
	var ids []string
	for _, name := range []string{"Base case", "Optimistic"} {
		body := forecastJSON("prop-1", `, "name": "`+name+`"`)
		rec := app.request("POST", "/api/v1/scenarios", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("save %s: expected 201, got %d: %s", name, rec.Code, rec.Body.String())
		}
		scenario := parseJSON(t, rec)["scenario"].(map[string]any)
		ids = append(ids, scenario["id"].(string))
	}

	t.Run("list", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/scenarios?property_id=prop-1", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if total := parseJSON(t, rec)["total_items"].(float64); total != 2 {
			t.Errorf("expected 2 scenarios, got %v", total)
		}
	})

	t.Run("get_with_periods", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/scenarios/"+ids[0], "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		scenario := parseJSON(t, rec)["scenario"].(map[string]any)
		if periods := scenario["periods"].([]any); len(periods) != 10 {
			t.Errorf("expected 10 periods, got %d", len(periods))
		}
	})

	t.Run("other_owner_cannot_read", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/scenarios/"+ids[0], "", tokenFor(t, "owner-2"))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("compare_without_baseline", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/scenarios/baseline/compare", forecastJSON("prop-1", ""), token)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "BASELINE_NOT_PINNED" {
			t.Errorf("expected BASELINE_NOT_PINNED, got %s", code)
		}
	})

	t.Run("pin_compare_unpin", func(t *testing.T) {
		rec := app.request("PUT", "/api/v1/scenarios/"+ids[0]+"/baseline", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("pin: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		live := forecastJSON("prop-1", `, "assumptions": {"rent_growth_rate": 0.05}`)
		rec = app.request("POST", "/api/v1/scenarios/baseline/compare", live, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("compare: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		cmp := parseJSON(t, rec)["comparison"].(map[string]any)
		if cmp["baseline"] != "Base case" {
			t.Errorf("expected baseline Base case, got %v", cmp["baseline"])
		}
		periods := cmp["periods"].([]any)
		first := periods[0].(map[string]any)["gross_income"].(float64)
		last := periods[len(periods)-1].(map[string]any)["gross_income"].(float64)
		if math.Abs(first) > 0.01 {
			t.Errorf("year 1 should match the baseline, got delta %.2f", first)
		}
		if last <= 0 {
			t.Errorf("expected higher final income than the baseline, got delta %.2f", last)
		}

		rec = app.request("DELETE", "/api/v1/properties/prop-1/baseline", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("unpin: expected 200, got %d", rec.Code)
		}
		rec = app.request("DELETE", "/api/v1/properties/prop-1/baseline", "", token)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("second unpin: expected 404, got %d", rec.Code)
		}
	})
}
