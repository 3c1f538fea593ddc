// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"math"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"propvest/internal/forecast"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerAll(v)
	}
}

func registerAll(v *validator.Validate) {
	_ = v.RegisterValidation("analysis_mode", validateAnalysisMode)
	_ = v.RegisterValidation("payment_frequency", validatePaymentFrequency)
	_ = v.RegisterValidation("rate_type", validateRateType)
	_ = v.RegisterValidation("rate_fraction", validateRateFraction)
	_ = v.RegisterValidation("sensitivity_field", validateSensitivityField)
}

func validateAnalysisMode(fl validator.FieldLevel) bool {
	_, err := forecast.ParseMode(fl.Field().String())
	return err == nil
}

func validatePaymentFrequency(fl validator.FieldLevel) bool {
	return forecast.PaymentFrequency(fl.Field().String()).Valid()
}

func validateRateType(fl validator.FieldLevel) bool {
	switch forecast.RateType(fl.Field().String()) {
	case "", forecast.RateFixed, forecast.RateVariable:
		return true
	}
	return false
}

// validateRateFraction accepts rates in [0, 1), e.g. 0.05 for 5%.
func validateRateFraction(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && f >= 0 && f < 1
}

func validateSensitivityField(fl validator.FieldLevel) bool {
	return forecast.Field(fl.Field().String()).Valid()
}
