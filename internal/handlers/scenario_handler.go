package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "propvest/internal/errors"
	"propvest/internal/pagination"
	"propvest/internal/services"
)

// ScenarioHandler handles saved scenarios and baseline comparison.
type ScenarioHandler struct {
	scenarioService services.ScenarioServicer
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioService services.ScenarioServicer) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService}
}

// SaveScenario handles computing and saving a named forecast snapshot.
// @Summary     Save a scenario
// @Description Compute a forecast and store it as an immutable named snapshot
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SaveScenarioRequest true "Scenario name and forecast inputs"
// @Success     201 {object} map[string]models.Scenario "Scenario saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios [post]
func (h *ScenarioHandler) SaveScenario(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	scenario, err := h.scenarioService.SaveScenario(ownerID, req.Name, req.toInput(), c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"scenario": scenario})
}

// GetScenarios handles listing saved scenarios.
// @Summary     Get scenarios
// @Description Get a paginated list of the owner's saved scenarios, newest first
// @Tags        scenarios
// @Produce     json
// @Security    BearerAuth
// @Param       property_id query string false "Filter by property"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       sort        query string false "newest, oldest or name (default newest)"
// @Success     200 {object} pagination.PageResponse[models.Scenario] "Paginated scenarios"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios [get]
func (h *ScenarioHandler) GetScenarios(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.scenarioService.GetScenarios(ownerID, c.Query("property_id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetScenario handles fetching one saved scenario with its periods.
// @Summary     Get a scenario
// @Description Get a saved scenario and its projected years
// @Tags        scenarios
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     200 {object} map[string]models.Scenario "Scenario"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Router      /scenarios/{id} [get]
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scenario, err := h.scenarioService.GetScenarioByID(ownerID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scenario": scenario})
}

// PinBaseline handles pinning a saved scenario as its property's baseline.
// @Summary     Pin a baseline
// @Description Make a saved scenario the comparison baseline of its property, replacing any earlier pin
// @Tags        scenarios
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     200 {object} map[string]models.BaselinePin "Baseline pinned"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/baseline [put]
func (h *ScenarioHandler) PinBaseline(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pin, err := h.scenarioService.PinBaseline(ownerID, c.Param("id"), c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"baseline": pin})
}

// UnpinBaseline handles removing a property's baseline pin.
// @Summary     Unpin a baseline
// @Description Remove the comparison baseline of a property. The scenario itself is kept.
// @Tags        scenarios
// @Produce     json
// @Security    BearerAuth
// @Param       property_id path string true "Property ID"
// @Success     200 {object} MessageResponse "Baseline unpinned"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No baseline pinned"
// @Router      /properties/{property_id}/baseline [delete]
func (h *ScenarioHandler) UnpinBaseline(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.scenarioService.UnpinBaseline(ownerID, c.Param("property_id"), c.ClientIP()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Baseline unpinned successfully"})
}

// CompareWithBaseline handles diffing live inputs against the pinned baseline.
// @Summary     Compare with baseline
// @Description Forecast the live inputs and report per-year and metric deltas against the property's pinned baseline
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ForecastRequest true "Live forecast inputs (property id required)"
// @Success     200 {object} map[string]forecast.Comparison "Comparison"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No baseline pinned"
// @Router      /scenarios/baseline/compare [post]
func (h *ScenarioHandler) CompareWithBaseline(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if req.Property.ID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "property.id is required"))
		return
	}

	comparison, err := h.scenarioService.CompareWithBaseline(ownerID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comparison": comparison})
}
