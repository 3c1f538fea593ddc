package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "propvest/internal/errors"
	"propvest/internal/forecast"
	"propvest/internal/services"
)

// ForecastHandler handles forecast and sensitivity requests.
type ForecastHandler struct {
	forecastService services.ForecastServicer
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastService services.ForecastServicer) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// GetPresets handles listing the preset assumption sets.
// @Summary     Get assumption presets
// @Description Get the preset assumption sets, optionally for one analysis mode
// @Tags        forecasts
// @Produce     json
// @Security    BearerAuth
// @Param       mode query string false "Analysis mode (cash-flow/equity)"
// @Success     200 {object} map[string][]forecast.AssumptionSet "Presets"
// @Failure     400 {object} ErrorResponse "Invalid mode"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assumptions/presets [get]
func (h *ForecastHandler) GetPresets(c *gin.Context) {
	var mode *forecast.Mode
	if v := c.Query("mode"); v != "" {
		m, err := forecast.ParseMode(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "mode must be 'cash-flow' or 'equity'"))
			return
		}
		mode = &m
	}

	c.JSON(http.StatusOK, gin.H{"presets": h.forecastService.Presets(mode)})
}

// CreateForecast handles generating a forecast and its return metrics.
// @Summary     Generate a forecast
// @Description Project a property year by year over the holding period and compute its return metrics
// @Tags        forecasts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ForecastRequest true "Property, assumptions and holding period"
// @Success     200 {object} map[string]forecast.Result "Forecast and metrics"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecasts [post]
func (h *ForecastHandler) CreateForecast(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.forecastService.Evaluate(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// RunSensitivity handles evaluating a forecast under varied assumptions.
// @Summary     Run a sensitivity analysis
// @Description Evaluate the base assumptions, ±delta variants of the chosen fields, and any alternate assumption sets
// @Tags        forecasts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SensitivityRequest true "Forecast inputs, fields and delta"
// @Success     200 {object} map[string][]forecast.Result "Scenario results"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecasts/sensitivity [post]
func (h *ForecastHandler) RunSensitivity(c *gin.Context) {
	var req SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	sr := services.SensitivityRequest{Delta: req.Delta}
	if sr.Delta == 0 {
		sr.Delta = defaultSensitivityDelta
	}
	for _, f := range req.Fields {
		sr.Fields = append(sr.Fields, forecast.Field(f))
	}
	for i := range req.Alternates {
		sr.Alternates = append(sr.Alternates, req.Alternates[i].toAlternate(i))
	}
	if len(sr.Fields) == 0 && len(sr.Alternates) == 0 {
		sr.Fields = forecast.Fields
	}

	results, err := h.forecastService.Sensitivity(req.toInput(), sr)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
