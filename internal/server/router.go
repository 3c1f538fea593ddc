// Package server assembles the HTTP router shared by the API binary and the
// integration tests.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"propvest/internal/handlers"
	"propvest/internal/middleware"
	"propvest/internal/services"
)

// Options configures NewRouter.
type Options struct {
	JWTSecret  string
	ServiceKey string
	Forecast   services.ForecastOptions
	// Swagger mounts the API docs at /swagger.
	Swagger bool
}

// NewRouter wires services, handlers and middleware into a gin engine.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	auditService := services.NewAuditService(db)
	forecastService := services.NewForecastService(opts.Forecast)
	scenarioService := services.NewScenarioService(db, forecastService, auditService)
	portfolioService := services.NewPortfolioService()

	forecastHandler := handlers.NewForecastHandler(forecastService)
	scenarioHandler := handlers.NewScenarioHandler(scenarioService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(opts.JWTSecret))

	v1.GET("/assumptions/presets", forecastHandler.GetPresets)

	forecasts := v1.Group("/forecasts")
	forecasts.POST("", forecastHandler.CreateForecast)
	forecasts.POST("/sensitivity", forecastHandler.RunSensitivity)

	v1.POST("/portfolio/summary", portfolioHandler.Summarize)

	scenarios := v1.Group("/scenarios")
	scenarios.POST("", scenarioHandler.SaveScenario)
	scenarios.GET("", scenarioHandler.GetScenarios)
	scenarios.POST("/baseline/compare", scenarioHandler.CompareWithBaseline)
	scenarios.GET("/:id", scenarioHandler.GetScenario)
	scenarios.PUT("/:id/baseline", scenarioHandler.PinBaseline)

	v1.DELETE("/properties/:property_id/baseline", scenarioHandler.UnpinBaseline)

	// Server-to-server routes for the property records service
	internal := router.Group("/internal/v1")
	internal.Use(middleware.ServiceKeyMiddleware(opts.ServiceKey))
	internal.POST("/forecasts", forecastHandler.CreateForecast)
	internal.POST("/portfolio/summary", portfolioHandler.Summarize)

	return router
}
