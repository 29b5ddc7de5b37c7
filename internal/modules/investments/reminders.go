package investments

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/events"
)

// ReminderFrequency is how often an investment reminder repeats
type ReminderFrequency string

const (
	ReminderDaily   ReminderFrequency = "daily"
	ReminderWeekly  ReminderFrequency = "weekly"
	ReminderMonthly ReminderFrequency = "monthly"
)

// NotificationScheduler registers recurring device notifications. Implemented
// by notify.Manager.
type NotificationScheduler interface {
	Schedule(schedule, title, body string) error
}

// Reminders registers recurring "review your investments" notifications.
// There is no dedup: scheduling the same frequency twice stacks two
// independent schedules, each firing on its own.
type Reminders struct {
	scheduler NotificationScheduler
	events    *events.Manager
	log       zerolog.Logger
}

// NewReminders creates the reminder scheduler
func NewReminders(scheduler NotificationScheduler, ev *events.Manager, log zerolog.Logger) *Reminders {
	return &Reminders{
		scheduler: scheduler,
		events:    ev,
		log:       log.With().Str("component", "reminders").Logger(),
	}
}

// Schedule registers a recurring reminder. Weekly reminders fire on Monday,
// monthly ones on the 1st.
func (r *Reminders) Schedule(frequency ReminderFrequency, hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid reminder time %02d:%02d", hour, minute)
	}

	var spec string
	switch frequency {
	case ReminderDaily:
		spec = fmt.Sprintf("0 %d %d * * *", minute, hour)
	case ReminderWeekly:
		spec = fmt.Sprintf("0 %d %d * * MON", minute, hour)
	case ReminderMonthly:
		spec = fmt.Sprintf("0 %d %d 1 * *", minute, hour)
	default:
		return fmt.Errorf("invalid reminder frequency %q", frequency)
	}

	err := r.scheduler.Schedule(spec, "Investment Reminder",
		"Time to review or add new investments in ForexAdvisor!")
	if err != nil {
		return fmt.Errorf("schedule %s reminder: %w", frequency, err)
	}

	r.events.Emit(events.ReminderScheduled, "reminders", map[string]interface{}{
		"frequency": string(frequency),
		"hour":      hour,
		"minute":    minute,
	})

	r.log.Info().
		Str("frequency", string(frequency)).
		Int("hour", hour).
		Int("minute", minute).
		Msg("Investment reminder scheduled")
	return nil
}
