package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "propvest/internal/errors"
	"propvest/internal/forecast"
	"propvest/internal/logger"
)

// portfolioService aggregates current-year figures across properties.
type portfolioService struct {
	now func() time.Time
	log *zap.SugaredLogger
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService() PortfolioServicer {
	return &portfolioService{now: time.Now, log: logger.Named("portfolio")}
}

// Summarize computes every property's summary concurrently and totals them.
// Summaries keep the input order. The lowest-indexed invalid property fails the call.
func (s *portfolioService) Summarize(ctx context.Context, properties []forecast.Property, asOf time.Time) (*forecast.Portfolio, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]forecast.PropertySummary, len(properties))
	errs := make([]error, len(properties))
	var wg sync.WaitGroup
	for i := range properties {
		wg.Add(1)
		go func(i int, p *forecast.Property) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			summary, err := forecast.SummarizeProperty(p, asOf)
			if err != nil {
				errs[i] = propertyError(i, p, err)
				return
			}
			summaries[i] = summary
		}(i, &properties[i])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	portfolio := forecast.AggregatePortfolio(summaries)
	s.log.Infow("portfolio summarized",
		"properties", len(summaries),
		"as_of", asOf.Format(time.DateOnly),
		"noi", portfolio.NOI.String(),
	)
	return &portfolio, nil
}

func propertyError(i int, p *forecast.Property, err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	label := p.ID
	if label == "" {
		label = fmt.Sprintf("#%d", i+1)
	}
	return apperrors.WithMessage(appErr, fmt.Sprintf("Property %s: %s", label, appErr.Message))
}
