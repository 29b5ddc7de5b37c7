package forex

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexadvisor/forexadvisor/internal/domain"
)

type stubSource struct {
	rate    float64
	history []domain.RatePoint
	err     error

	historyDays int
}

func (s *stubSource) GetRate(_ context.Context, _, _ string) (float64, error) {
	return s.rate, s.err
}

func (s *stubSource) GetHistory(_ context.Context, _, _ string, days int) ([]domain.RatePoint, error) {
	s.historyDays = days
	return s.history, s.err
}

func TestForecast(t *testing.T) {
	source := &stubSource{history: []domain.RatePoint{
		{Date: "2026-08-23", Rate: 278},
		{Date: "2026-08-24", Rate: 279},
		{Date: "2026-08-25", Rate: 280},
		{Date: "2026-08-26", Rate: 282},
		{Date: "2026-08-27", Rate: 284},
		{Date: "2026-08-28", Rate: 286},
		{Date: "2026-08-29", Rate: 288},
	}}
	service := NewService(source, zerolog.Nop())

	f, err := service.Forecast(context.Background(), "USD", "PKR")
	require.NoError(t, err)

	assert.Equal(t, "USD/PKR", f.Pair)
	assert.Equal(t, TrendUp, f.Trend)
	assert.Len(t, f.History, 7)
	assert.Len(t, f.Smoothed, 7)
	assert.Equal(t, 7, source.historyDays)
}

func TestForecastSourceError(t *testing.T) {
	source := &stubSource{err: errors.New("network down")}
	service := NewService(source, zerolog.Nop())

	_, err := service.Forecast(context.Background(), "USD", "PKR")
	assert.ErrorContains(t, err, "network down")
}

func TestForecastShortHistory(t *testing.T) {
	source := &stubSource{history: []domain.RatePoint{
		{Date: "2026-08-28", Rate: 280},
		{Date: "2026-08-29", Rate: 281},
	}}
	service := NewService(source, zerolog.Nop())

	f, err := service.Forecast(context.Background(), "USD", "PKR")
	require.NoError(t, err)

	assert.Equal(t, TrendStable, f.Trend)
	assert.Nil(t, f.Smoothed)
}
