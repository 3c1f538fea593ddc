package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"propvest/internal/config"
	apperrors "propvest/internal/errors"
	"propvest/internal/forecast"
	"propvest/internal/logger"
)

// ForecastOptions carries the configurable knobs of the forecasting engine.
type ForecastOptions struct {
	Solver                forecast.SolverOptions
	DefaultSellingCostPct float64
	MaxHoldingPeriod      int
}

// ForecastOptionsFromConfig builds ForecastOptions from the application configuration.
func ForecastOptionsFromConfig(cfg *config.Config) ForecastOptions {
	return ForecastOptions{
		Solver: forecast.SolverOptions{
			MaxIterations: cfg.IRRMaxIterations,
			Tolerance:     cfg.IRRTolerance,
		},
		DefaultSellingCostPct: cfg.DefaultSellingCostPct,
		MaxHoldingPeriod:      cfg.MaxHoldingPeriod,
	}
}

// forecastService runs the forecasting engine with configured defaults.
type forecastService struct {
	opts ForecastOptions
	now  func() time.Time
	log  *zap.SugaredLogger
}

// NewForecastService creates a new ForecastServicer.
func NewForecastService(opts ForecastOptions) ForecastServicer {
	if opts.MaxHoldingPeriod <= 0 || opts.MaxHoldingPeriod > forecast.MaxHoldingPeriod {
		opts.MaxHoldingPeriod = forecast.MaxHoldingPeriod
	}
	if opts.DefaultSellingCostPct <= 0 {
		opts.DefaultSellingCostPct = forecast.DefaultSellingCostPct
	}
	return &forecastService{opts: opts, now: time.Now, log: logger.Named("forecast")}
}

// Presets returns the preset assumption sets, optionally for a single mode.
func (s *forecastService) Presets(mode *forecast.Mode) []forecast.AssumptionSet {
	if mode != nil {
		return []forecast.AssumptionSet{s.withDefaults(forecast.DefaultAssumptions(*mode))}
	}
	return []forecast.AssumptionSet{
		s.withDefaults(forecast.DefaultAssumptions(forecast.ModeCashFlow)),
		s.withDefaults(forecast.DefaultAssumptions(forecast.ModeEquity)),
	}
}

// Evaluate generates a forecast and its metrics.
func (s *forecastService) Evaluate(in forecast.Input) (*forecast.Result, error) {
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	res, err := forecast.Evaluate(in, s.metricsOptions())
	if err != nil {
		return nil, err
	}
	s.logResult(in, res)
	return &res, nil
}

// Sensitivity evaluates the base scenario, its ±delta variants and any alternates.
func (s *forecastService) Sensitivity(in forecast.Input, req SensitivityRequest) ([]forecast.Result, error) {
	for _, f := range req.Fields {
		if !f.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unknown sensitivity field %q", f))
		}
	}
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	sets := forecast.Sensitivity(in.Assumptions, req.Fields, req.Delta)
	for i, alt := range req.Alternates {
		if alt.Name == "" {
			alt.Name = forecast.AlternateName(i)
		}
		sets = append(sets, s.withDefaults(alt))
	}

	results, err := forecast.RunScenarios(in, sets, s.metricsOptions())
	if err != nil {
		return nil, err
	}
	s.log.Infow("sensitivity evaluated",
		"property_id", in.Property.ID,
		"scenarios", len(results),
		"holding_period", in.HoldingPeriod,
	)
	return results, nil
}

// prepare applies the configured defaults and limits to an input.
func (s *forecastService) prepare(in forecast.Input) (forecast.Input, error) {
	if in.AsOf.IsZero() {
		in.AsOf = s.now()
	}
	if in.HoldingPeriod > s.opts.MaxHoldingPeriod {
		return in, apperrors.WithMessage(apperrors.ErrInvalidHoldingPeriod,
			fmt.Sprintf("Holding period cannot exceed %d years", s.opts.MaxHoldingPeriod))
	}
	in.Assumptions = s.withDefaults(in.Assumptions)
	return in, nil
}

func (s *forecastService) withDefaults(a forecast.AssumptionSet) forecast.AssumptionSet {
	if a.SellingCostPct == nil {
		pct := s.opts.DefaultSellingCostPct
		a.SellingCostPct = &pct
	}
	if a.Name == "" {
		a.Name = forecast.DefaultAssumptions(a.Mode).Name
	}
	return a
}

func (s *forecastService) metricsOptions() forecast.MetricsOptions {
	return forecast.MetricsOptions{Solver: s.opts.Solver}
}

func (s *forecastService) logResult(in forecast.Input, res forecast.Result) {
	m := res.Metrics
	if m.SaleProceeds != nil && !m.IRRConverged {
		s.log.Warnw("irr did not converge",
			"property_id", in.Property.ID,
			"scenario", res.Name,
			"iterations", m.IRRIterations,
		)
	}
	s.log.Infow("forecast generated",
		"property_id", in.Property.ID,
		"scenario", res.Name,
		"mode", in.Assumptions.Mode.String(),
		"holding_period", in.HoldingPeriod,
		"irr_converged", m.IRRConverged,
	)
}
