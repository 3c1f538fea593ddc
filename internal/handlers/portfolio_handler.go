package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"propvest/internal/forecast"
	"propvest/internal/services"
)

// PortfolioHandler handles portfolio aggregation requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// Summarize handles aggregating current-year figures across properties.
// @Summary     Summarize a portfolio
// @Description Total the blended current-year income, expenses, debt service and ratios of a set of properties
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PortfolioRequest true "Property snapshots"
// @Success     200 {object} map[string]forecast.Portfolio "Portfolio summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/summary [post]
func (h *PortfolioHandler) Summarize(c *gin.Context) {
	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	properties := make([]forecast.Property, len(req.Properties))
	for i := range req.Properties {
		properties[i] = *req.Properties[i].toProperty()
	}
	var asOf time.Time
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	portfolio, err := h.portfolioService.Summarize(c.Request.Context(), properties, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}
