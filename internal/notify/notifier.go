// Package notify is the device notification collaborator. Immediate
// notifications fan out to every registered sender; recurring ones are
// registered with the scheduler and re-delivered on each trigger.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/scheduler"
)

// Sender is the interface each notification channel must implement
type Sender interface {
	// Send delivers a notification with the given title and message body
	Send(ctx context.Context, title, body string) error
	// Name returns a human-readable identifier for the sender
	Name() string
}

// Manager dispatches notifications to one or more senders
type Manager struct {
	senders []Sender
	sched   *scheduler.Scheduler
	log     zerolog.Logger
}

// NewManager creates a Manager delivering to the given senders. sched may be
// nil when recurring notifications are not needed (tests).
func NewManager(senders []Sender, sched *scheduler.Scheduler, log zerolog.Logger) *Manager {
	return &Manager{
		senders: senders,
		sched:   sched,
		log:     log.With().Str("component", "notify").Logger(),
	}
}

// Send delivers a one-shot notification to all senders immediately. Delivery
// failures on individual senders are logged and do not stop the fan-out; the
// first failure is returned.
func (m *Manager) Send(ctx context.Context, title, body string) error {
	var firstErr error
	for _, s := range m.senders {
		if err := s.Send(ctx, title, body); err != nil {
			m.log.Error().
				Err(err).
				Str("sender", s.Name()).
				Str("title", title).
				Msg("Notification delivery failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("send via %s: %w", s.Name(), err)
			}
		}
	}
	return firstErr
}

// Schedule registers a recurring notification on the given cron schedule.
// Repeat calls with the same schedule stack independent registrations.
func (m *Manager) Schedule(schedule, title, body string) error {
	if m.sched == nil {
		return fmt.Errorf("no scheduler configured")
	}
	_, err := m.sched.AddJob(schedule, &recurringNotification{
		manager: m,
		title:   title,
		body:    body,
	})
	if err != nil {
		return fmt.Errorf("schedule notification: %w", err)
	}
	return nil
}

// recurringNotification adapts a scheduled notification to a scheduler.Job
type recurringNotification struct {
	manager *Manager
	title   string
	body    string
}

func (j *recurringNotification) Run() error {
	return j.manager.Send(context.Background(), j.title, j.body)
}

func (j *recurringNotification) Name() string {
	return "notification:" + j.title
}

// LogSender writes notifications to the structured log. It is the default
// sender on headless deployments where no push channel is wired.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a log-backed sender
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("sender", "log").Logger()}
}

func (s *LogSender) Send(_ context.Context, title, body string) error {
	s.log.Info().Str("title", title).Str("body", body).Msg("Notification")
	return nil
}

func (s *LogSender) Name() string {
	return "log"
}
