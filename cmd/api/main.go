package main

import (
	"fmt"
	"os"

	"propvest/internal/config"
	"propvest/internal/database"
	"propvest/internal/logger"
	"propvest/internal/server"
	"propvest/internal/services"
	"propvest/internal/validator"

	_ "propvest/internal/docs" // Import swagger docs
)

// @title           Propvest API
// @version         1.0
// @description     Propvest forecasts rental properties year by year over a holding period and computes their investment return metrics.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	router := server.NewRouter(dbManager.DB(), server.Options{
		JWTSecret:  appConfig.JWTSecret,
		ServiceKey: appConfig.ServiceAPIKey,
		Forecast:   services.ForecastOptionsFromConfig(appConfig),
		Swagger:    appConfig.Env != "production",
	})

	log.Infof("Starting Propvest API server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
