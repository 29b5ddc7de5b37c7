package investments

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexadvisor/forexadvisor/internal/events"
)

// mockScheduler records registered schedules
type mockScheduler struct {
	schedules []string
	titles    []string
}

func (m *mockScheduler) Schedule(schedule, title, _ string) error {
	m.schedules = append(m.schedules, schedule)
	m.titles = append(m.titles, title)
	return nil
}

func TestReminderSchedules(t *testing.T) {
	tests := []struct {
		name      string
		frequency ReminderFrequency
		hour      int
		minute    int
		wantSpec  string
		wantErr   bool
	}{
		{name: "daily default time", frequency: ReminderDaily, hour: 9, minute: 0, wantSpec: "0 0 9 * * *"},
		{name: "weekly on Monday", frequency: ReminderWeekly, hour: 18, minute: 30, wantSpec: "0 30 18 * * MON"},
		{name: "monthly on the 1st", frequency: ReminderMonthly, hour: 8, minute: 15, wantSpec: "0 15 8 1 * *"},
		{name: "unknown frequency", frequency: "yearly", hour: 9, minute: 0, wantErr: true},
		{name: "invalid hour", frequency: ReminderDaily, hour: 24, minute: 0, wantErr: true},
		{name: "invalid minute", frequency: ReminderDaily, hour: 9, minute: 60, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &mockScheduler{}
			reminders := NewReminders(sched, events.NewManager(zerolog.Nop()), zerolog.Nop())

			err := reminders.Schedule(tt.frequency, tt.hour, tt.minute)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, sched.schedules)
				return
			}

			require.NoError(t, err)
			require.Len(t, sched.schedules, 1)
			assert.Equal(t, tt.wantSpec, sched.schedules[0])
			assert.Equal(t, "Investment Reminder", sched.titles[0])
		})
	}
}

func TestRemindersStackWithoutDedup(t *testing.T) {
	sched := &mockScheduler{}
	reminders := NewReminders(sched, events.NewManager(zerolog.Nop()), zerolog.Nop())

	require.NoError(t, reminders.Schedule(ReminderDaily, 9, 0))
	require.NoError(t, reminders.Schedule(ReminderDaily, 9, 0))

	// Two identical calls, two independent schedules
	assert.Len(t, sched.schedules, 2)
}
