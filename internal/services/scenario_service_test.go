package services

import (
	"testing"
	"time"

	"propvest/internal/models"
	"propvest/internal/pagination"
	"propvest/internal/testutil"

	"gorm.io/gorm"
)

func newTestScenarioService(t *testing.T, db *gorm.DB) *scenarioService {
	t.Helper()
	svc, ok := NewScenarioService(db, NewForecastService(ForecastOptions{}), NewAuditService(db)).(*scenarioService)
	if !ok {
		t.Fatal("expected *scenarioService")
	}
	clock := testutil.Date(2024, time.July, 1)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestSaveScenario(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		in := testutil.NewTestInput(testutil.NewTestMortgagedProperty())

		scenario, err := svc.SaveScenario("owner-1", "Base case", in, "127.0.0.1")
		testutil.AssertNoError(t, err)

		if scenario.ID == "" {
			t.Fatal("expected scenario ID")
		}
		if scenario.PropertyID != in.Property.ID {
			t.Errorf("expected property %s, got %s", in.Property.ID, scenario.PropertyID)
		}
		if scenario.Mode != "cash-flow" {
			t.Errorf("expected mode cash-flow, got %s", scenario.Mode)
		}
		if scenario.IRR == nil {
			t.Error("expected an IRR to be stored")
		}

		var periods int64
		db.Model(&models.ScenarioPeriod{}).Where("scenario_id = ?", scenario.ID).Count(&periods)
		if periods != 5 {
			t.Errorf("expected 5 stored periods, got %d", periods)
		}

		var audit models.AuditLog
		if err := db.Where("resource_id = ?", scenario.ID).First(&audit).Error; err != nil {
			t.Fatalf("expected audit log entry: %v", err)
		}
		if audit.Action != AuditScenarioSaved {
			t.Errorf("expected action %s, got %s", AuditScenarioSaved, audit.Action)
		}
	})

	t.Run("same_name_twice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		in := testutil.NewTestInput(testutil.NewTestProperty())

		first, err := svc.SaveScenario("owner-1", "Plan", in, "")
		testutil.AssertNoError(t, err)
		second, err := svc.SaveScenario("owner-1", "Plan", in, "")
		testutil.AssertNoError(t, err)

		if first.ID == second.ID {
			t.Error("expected distinct scenarios")
		}
		if !second.CreatedAt.After(first.CreatedAt) {
			t.Error("expected the second snapshot to be newer")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)

		_, err := svc.SaveScenario("owner-1", "  ", testutil.NewTestInput(testutil.NewTestProperty()), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_property_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		p := testutil.NewTestProperty()
		p.ID = ""

		_, err := svc.SaveScenario("owner-1", "Plan", testutil.NewTestInput(p), "")
		testutil.AssertAppError(t, err, "INVALID_PROPERTY")
	})

	t.Run("invalid_input_not_saved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		in := testutil.NewTestInput(testutil.NewTestProperty())
		in.HoldingPeriod = 0

		_, err := svc.SaveScenario("owner-1", "Plan", in, "")
		testutil.AssertAppError(t, err, "INVALID_HOLDING_PERIOD")

		var count int64
		db.Model(&models.Scenario{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no scenarios, got %d", count)
		}
	})
}

func TestGetScenarios(t *testing.T) {
	t.Run("owner_scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)

		testutil.CreateTestScenario(t, db, "owner-1", "prop-a")
		testutil.CreateTestScenario(t, db, "owner-1", "prop-b")
		testutil.CreateTestScenario(t, db, "owner-2", "prop-a")

		resp, err := svc.GetScenarios("owner-1", "", pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if resp.TotalItems != 2 {
			t.Errorf("expected 2 scenarios, got %d", resp.TotalItems)
		}
		for _, s := range resp.Data {
			if s.OwnerID != "owner-1" {
				t.Errorf("unexpected owner %s", s.OwnerID)
			}
		}
	})

	t.Run("property_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)

		testutil.CreateTestScenario(t, db, "owner-1", "prop-a")
		testutil.CreateTestScenario(t, db, "owner-1", "prop-b")

		resp, err := svc.GetScenarios("owner-1", "prop-b", pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if resp.TotalItems != 1 || resp.Data[0].PropertyID != "prop-b" {
			t.Errorf("expected only prop-b, got %+v", resp.Data)
		}
	})

	t.Run("paginated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)

		for i := 0; i < 3; i++ {
			testutil.CreateTestScenario(t, db, "owner-1", "prop-a")
		}

		resp, err := svc.GetScenarios("owner-1", "", pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)

		if len(resp.Data) != 1 {
			t.Errorf("expected 1 item on page 2, got %d", len(resp.Data))
		}
		if resp.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", resp.TotalPages)
		}
	})

	t.Run("sorted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		in := testutil.NewTestInput(testutil.NewTestProperty())

		for _, name := range []string{"Beta", "Alpha", "Gamma"} {
			_, err := svc.SaveScenario("owner-1", name, in, "")
			testutil.AssertNoError(t, err)
		}

		tests := []struct {
			sort string
			want string
		}{
			{"", "Gamma"},
			{"newest", "Gamma"},
			{"oldest", "Beta"},
			{"name", "Alpha"},
			{"bogus", "Gamma"},
		}
		for _, tt := range tests {
			resp, err := svc.GetScenarios("owner-1", "", pagination.PageRequest{Sort: tt.sort})
			testutil.AssertNoError(t, err)
			if resp.Data[0].Name != tt.want {
				t.Errorf("sort %q: expected %s first, got %s", tt.sort, tt.want, resp.Data[0].Name)
			}
		}
	})
}

func TestGetScenarioByID(t *testing.T) {
	t.Run("periods_in_year_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		created := testutil.CreateTestScenario(t, db, "owner-1", "prop-a")

		scenario, err := svc.GetScenarioByID("owner-1", created.ID)
		testutil.AssertNoError(t, err)

		if len(scenario.Periods) != 2 {
			t.Fatalf("expected 2 periods, got %d", len(scenario.Periods))
		}
		if scenario.Periods[0].Year != 1 || scenario.Periods[1].Year != 2 {
			t.Errorf("expected years 1,2, got %d,%d", scenario.Periods[0].Year, scenario.Periods[1].Year)
		}
	})

	t.Run("wrong_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		created := testutil.CreateTestScenario(t, db, "owner-1", "prop-a")

		_, err := svc.GetScenarioByID("owner-2", created.ID)
		testutil.AssertAppError(t, err, "SCENARIO_NOT_FOUND")
	})
}

func TestPinBaseline(t *testing.T) {
	t.Run("pin_and_replace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		first := testutil.CreateTestScenario(t, db, "owner-1", "prop-a")
		second := testutil.CreateTestScenario(t, db, "owner-1", "prop-a")

		pin, err := svc.PinBaseline("owner-1", first.ID, "")
		testutil.AssertNoError(t, err)
		if pin.ScenarioID != first.ID || pin.PropertyID != "prop-a" {
			t.Errorf("unexpected pin %+v", pin)
		}

		pin, err = svc.PinBaseline("owner-1", second.ID, "")
		testutil.AssertNoError(t, err)
		if pin.ScenarioID != second.ID {
			t.Errorf("expected pin to move to %s, got %s", second.ID, pin.ScenarioID)
		}

		var count int64
		db.Model(&models.BaselinePin{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 pin, got %d", count)
		}
	})

	t.Run("scenario_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		created := testutil.CreateTestScenario(t, db, "owner-1", "prop-a")

		_, err := svc.PinBaseline("owner-1", created.ID, "")
		testutil.AssertNoError(t, err)

		reloaded, err := svc.GetScenarioByID("owner-1", created.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Name != created.Name || reloaded.InitialValue != created.InitialValue {
			t.Errorf("expected scenario to be unchanged, got %+v", reloaded)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)

		_, err := svc.PinBaseline("owner-1", "missing", "")
		testutil.AssertAppError(t, err, "SCENARIO_NOT_FOUND")
	})
}

func TestUnpinBaseline(t *testing.T) {
	t.Run("unpin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		created := testutil.CreateTestScenario(t, db, "owner-1", "prop-a")
		_, err := svc.PinBaseline("owner-1", created.ID, "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.UnpinBaseline("owner-1", "prop-a", ""))

		err = svc.UnpinBaseline("owner-1", "prop-a", "")
		testutil.AssertAppError(t, err, "BASELINE_NOT_PINNED")

		var count int64
		db.Model(&models.Scenario{}).Count(&count)
		if count != 1 {
			t.Errorf("expected the scenario to survive unpinning, got %d", count)
		}
	})
}

func TestCompareWithBaseline(t *testing.T) {
	t.Run("same_inputs_zero_delta", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		in := testutil.NewTestInput(testutil.NewTestMortgagedProperty())

		saved, err := svc.SaveScenario("owner-1", "Ghost", in, "")
		testutil.AssertNoError(t, err)
		_, err = svc.PinBaseline("owner-1", saved.ID, "")
		testutil.AssertNoError(t, err)

		cmp, err := svc.CompareWithBaseline("owner-1", in)
		testutil.AssertNoError(t, err)

		if cmp.Baseline != "Ghost" {
			t.Errorf("expected baseline Ghost, got %s", cmp.Baseline)
		}
		if len(cmp.Periods) != 5 {
			t.Fatalf("expected 5 period deltas, got %d", len(cmp.Periods))
		}
		for _, p := range cmp.Periods {
			if p.GrossIncome != 0 || p.NOI != 0 || p.NetCashFlow != 0 || p.CumulativeCashFlow != 0 || p.MortgageBalance != 0 {
				t.Errorf("year %d: expected zero deltas, got %+v", p.Year, p)
			}
			if p.PropertyValue != nil && *p.PropertyValue != 0 {
				t.Errorf("year %d: expected zero value delta, got %f", p.Year, *p.PropertyValue)
			}
		}
		if cmp.Metrics.IRR == nil || *cmp.Metrics.IRR != 0 {
			t.Errorf("expected zero IRR delta, got %v", cmp.Metrics.IRR)
		}
	})

	t.Run("unchanged_input_exact_zero_with_cents", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		p := testutil.NewTestMortgagedProperty()
		p.MonthlyRent = 2123.457
		in := testutil.NewTestInput(p)
		in.Assumptions.RentGrowthRate = 0.0317

		saved, err := svc.SaveScenario("owner-1", "Ghost", in, "")
		testutil.AssertNoError(t, err)
		_, err = svc.PinBaseline("owner-1", saved.ID, "")
		testutil.AssertNoError(t, err)

		cmp, err := svc.CompareWithBaseline("owner-1", in)
		testutil.AssertNoError(t, err)

		for _, d := range cmp.Periods {
			if d.GrossIncome != 0 || d.NOI != 0 || d.NetCashFlow != 0 || d.CumulativeCashFlow != 0 || d.MortgageBalance != 0 {
				t.Errorf("year %d: expected exact zero deltas, got %+v", d.Year, d)
			}
		}
		if cmp.Metrics.TotalProfit != nil && *cmp.Metrics.TotalProfit != 0 {
			t.Errorf("expected zero profit delta, got %f", *cmp.Metrics.TotalProfit)
		}
		if cmp.Metrics.CashOnCash != 0 || cmp.Metrics.CapRate != 0 {
			t.Errorf("expected zero ratio deltas, got %+v", cmp.Metrics)
		}
	})

	t.Run("changed_assumptions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)
		in := testutil.NewTestInput(testutil.NewTestProperty())

		saved, err := svc.SaveScenario("owner-1", "Ghost", in, "")
		testutil.AssertNoError(t, err)
		_, err = svc.PinBaseline("owner-1", saved.ID, "")
		testutil.AssertNoError(t, err)

		live := in
		live.Assumptions.RentGrowthRate = 0.05
		cmp, err := svc.CompareWithBaseline("owner-1", live)
		testutil.AssertNoError(t, err)

		if cmp.Periods[0].GrossIncome > 0.005 {
			t.Errorf("year 1 should not change, got delta %.2f", cmp.Periods[0].GrossIncome)
		}
		if cmp.Periods[1].GrossIncome <= 0 {
			t.Errorf("expected higher year 2 income, got delta %.2f", cmp.Periods[1].GrossIncome)
		}
	})

	t.Run("no_baseline", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestScenarioService(t, db)

		_, err := svc.CompareWithBaseline("owner-1", testutil.NewTestInput(testutil.NewTestProperty()))
		testutil.AssertAppError(t, err, "BASELINE_NOT_PINNED")
	})
}
