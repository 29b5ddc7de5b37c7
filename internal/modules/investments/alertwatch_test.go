package investments

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexadvisor/forexadvisor/internal/domain"
	"github.com/forexadvisor/forexadvisor/internal/events"
)

// stubRates returns a fixed rate per pair
type stubRates struct {
	rates map[string]float64
	err   error
}

func (s *stubRates) GetRate(_ context.Context, base, target string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.rates[base+"/"+target], nil
}

func setupWatchJob(t *testing.T, rates RateLookup, notifier Notifier) (*AlertWatchJob, *AlertBook) {
	t.Helper()

	book := NewAlertBook(setupBlob(t), events.NewManager(zerolog.Nop()), zerolog.Nop())
	job := NewAlertWatchJob(AlertWatchConfig{
		Alerts:   book,
		Rates:    rates,
		Notifier: notifier,
		Log:      zerolog.Nop(),
	})
	return job, book
}

func TestAlertWatchFiresAndRemoves(t *testing.T) {
	notifier := &mockNotifier{}
	job, book := setupWatchJob(t, &stubRates{rates: map[string]float64{"USD/PKR": 286}}, notifier)

	_, err := book.Add("USD/PKR", 285, domain.AlertAbove)
	require.NoError(t, err)

	require.NoError(t, job.Run())

	require.Len(t, notifier.titles, 1)
	assert.Equal(t, "Rate Alert", notifier.titles[0])
	assert.Contains(t, notifier.bodies[0], "USD/PKR is now 286")

	// Fired alert is gone; a second run stays quiet
	remaining, err := book.List()
	require.NoError(t, err)
	assert.Empty(t, remaining)

	require.NoError(t, job.Run())
	assert.Len(t, notifier.titles, 1)
}

func TestAlertWatchDirections(t *testing.T) {
	notifier := &mockNotifier{}
	job, book := setupWatchJob(t, &stubRates{rates: map[string]float64{"USD/PKR": 280}}, notifier)

	// 280 is below the above-285 threshold and above the below-275 one:
	// neither side has crossed
	_, err := book.Add("USD/PKR", 285, domain.AlertAbove)
	require.NoError(t, err)
	_, err = book.Add("USD/PKR", 275, domain.AlertBelow)
	require.NoError(t, err)

	require.NoError(t, job.Run())
	assert.Empty(t, notifier.titles)

	remaining, err := book.List()
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestAlertWatchBelowThreshold(t *testing.T) {
	notifier := &mockNotifier{}
	job, book := setupWatchJob(t, &stubRates{rates: map[string]float64{"USD/PKR": 274}}, notifier)

	_, err := book.Add("USD/PKR", 275, domain.AlertBelow)
	require.NoError(t, err)

	require.NoError(t, job.Run())
	require.Len(t, notifier.titles, 1)
	assert.Contains(t, notifier.bodies[0], "below your alert threshold")
}

func TestAlertWatchLookupFailureSkips(t *testing.T) {
	notifier := &mockNotifier{}
	job, book := setupWatchJob(t, &stubRates{err: errors.New("network down")}, notifier)

	_, err := book.Add("USD/PKR", 285, domain.AlertAbove)
	require.NoError(t, err)

	// Lookup failures skip the alert without failing the run
	require.NoError(t, job.Run())
	assert.Empty(t, notifier.titles)

	remaining, err := book.List()
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
