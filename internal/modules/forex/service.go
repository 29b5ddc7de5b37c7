// Package forex serves currency rate display and the moving-average trend
// forecast built on the rate-lookup collaborator.
package forex

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
)

// historyDays is the span of the series the forecast is computed over
const historyDays = 7

// RateSource is the rate-lookup collaborator. Implemented by
// exchangerate.Client.
type RateSource interface {
	GetRate(ctx context.Context, base, target string) (float64, error)
	GetHistory(ctx context.Context, base, target string, days int) ([]domain.RatePoint, error)
}

// Forecast is a trend label with the series it was derived from
type Forecast struct {
	Pair     string             `json:"pair"`
	Trend    string             `json:"trend"`
	History  []domain.RatePoint `json:"history"`
	Smoothed []float64          `json:"smoothed,omitempty"`
}

// Service answers rate and forecast queries
type Service struct {
	source RateSource
	log    zerolog.Logger
}

// NewService creates a forex service over the given rate source
func NewService(source RateSource, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "forex").Logger(),
	}
}

// Rate returns the latest rate for base -> target
func (s *Service) Rate(ctx context.Context, base, target string) (float64, error) {
	return s.source.GetRate(ctx, base, target)
}

// History returns the 7-day daily series for base -> target, oldest first
func (s *Service) History(ctx context.Context, base, target string) ([]domain.RatePoint, error) {
	return s.source.GetHistory(ctx, base, target, historyDays)
}

// Forecast fetches the 7-day series and labels its trend
func (s *Service) Forecast(ctx context.Context, base, target string) (Forecast, error) {
	history, err := s.History(ctx, base, target)
	if err != nil {
		return Forecast{}, fmt.Errorf("forecast %s/%s: %w", base, target, err)
	}

	rates := make([]float64, len(history))
	for i, p := range history {
		rates[i] = p.Rate
	}

	f := Forecast{
		Pair:     base + "/" + target,
		Trend:    Predict(rates),
		History:  history,
		Smoothed: Smooth(rates),
	}

	s.log.Debug().
		Str("pair", f.Pair).
		Str("trend", f.Trend).
		Int("points", len(history)).
		Msg("Forecast computed")
	return f, nil
}
