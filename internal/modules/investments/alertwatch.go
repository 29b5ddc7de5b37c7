package investments

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
)

// RateLookup fetches the current rate for a currency pair. Implemented by
// exchangerate.Client.
type RateLookup interface {
	GetRate(ctx context.Context, base, target string) (float64, error)
}

// AlertWatchJob checks every stored rate alert against the live rate and
// fires a notification for each one that has crossed its threshold. A fired
// alert is removed, so it triggers at most once.
type AlertWatchJob struct {
	alerts   *AlertBook
	rates    RateLookup
	notifier Notifier
	log      zerolog.Logger
}

// AlertWatchConfig holds configuration for the alert watch job
type AlertWatchConfig struct {
	Alerts   *AlertBook
	Rates    RateLookup
	Notifier Notifier
	Log      zerolog.Logger
}

// NewAlertWatchJob creates a new alert watch job
func NewAlertWatchJob(cfg AlertWatchConfig) *AlertWatchJob {
	return &AlertWatchJob{
		alerts:   cfg.Alerts,
		rates:    cfg.Rates,
		notifier: cfg.Notifier,
		log:      cfg.Log.With().Str("job", "alert_watch").Logger(),
	}
}

// Name returns the job name
func (j *AlertWatchJob) Name() string {
	return "alert_watch"
}

// Run checks all alerts. A rate lookup failure on one pair is logged and
// skips that alert without failing the run, so a flaky pair cannot starve
// the rest.
func (j *AlertWatchJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	alerts, err := j.alerts.List()
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil
	}

	j.log.Debug().Int("alerts", len(alerts)).Msg("Checking rate alerts")

	for _, alert := range alerts {
		base, target, ok := splitPair(alert.Pair)
		if !ok {
			j.log.Warn().Str("pair", alert.Pair).Msg("Malformed alert pair, skipping")
			continue
		}

		rate, err := j.rates.GetRate(ctx, base, target)
		if err != nil {
			j.log.Warn().Err(err).Str("pair", alert.Pair).Msg("Rate lookup failed, skipping alert")
			continue
		}

		if !crossed(alert, rate) {
			continue
		}

		j.fire(ctx, alert, rate)
	}

	return nil
}

// fire notifies and removes one triggered alert
func (j *AlertWatchJob) fire(ctx context.Context, alert domain.RateAlert, rate float64) {
	body := fmt.Sprintf("%s is now %s, %s your alert threshold of %s.",
		alert.Pair,
		strconv.FormatFloat(rate, 'f', -1, 64),
		string(alert.Direction),
		strconv.FormatFloat(alert.Threshold, 'f', -1, 64))

	if err := j.notifier.Send(ctx, "Rate Alert", body); err != nil {
		// Keep the alert so the next run retries the delivery
		j.log.Error().Err(err).Str("pair", alert.Pair).Msg("Alert notification failed")
		return
	}

	if err := j.alerts.Remove(alert.ID); err != nil {
		j.log.Error().Err(err).Str("id", alert.ID).Msg("Failed to remove fired alert")
		return
	}

	j.log.Info().
		Str("pair", alert.Pair).
		Float64("rate", rate).
		Float64("threshold", alert.Threshold).
		Msg("Rate alert fired")
}

func crossed(alert domain.RateAlert, rate float64) bool {
	switch alert.Direction {
	case domain.AlertAbove:
		return rate >= alert.Threshold
	case domain.AlertBelow:
		return rate <= alert.Threshold
	default:
		return false
	}
}

// splitPair parses "USD/PKR" into base and target
func splitPair(pair string) (base, target string, ok bool) {
	parts := strings.Split(pair, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
