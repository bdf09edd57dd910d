// Package reminder runs the daily reminder schedule.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/notifier"
	"github.com/julianstephens/tally/internal/utils"
)

const checkTimeout = 10 * time.Second

// ProgressSource reports today's checklist progress.
type ProgressSource interface {
	Progress() (date string, percent int, complete bool, err error)
}

// Scheduler fires a reminder at each configured time of day while today's
// checklist is incomplete.
type Scheduler struct {
	cron   *cron.Cron
	source ProgressSource
	sender notifier.Sender
	times  []string
}

// CronSpec converts an HH:MM time into a daily cron spec.
func CronSpec(hhmm string) (string, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(hhmm))
	if err != nil {
		return "", fmt.Errorf("invalid reminder time %q: %w", hhmm, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// Message is the reminder text for an incomplete day.
func Message(percent int) string {
	return fmt.Sprintf("Ai bifat %d%% din lista de azi. Nu uita de obiceiurile tale! ✅", percent)
}

// NewScheduler registers one job per reminder time in the settings timezone.
func NewScheduler(source ProgressSource, sender notifier.Sender, settings models.Settings) (*Scheduler, error) {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		source: source,
		sender: sender,
	}
	for _, rt := range settings.ReminderTimes {
		spec, err := CronSpec(rt)
		if err != nil {
			return nil, err
		}
		if _, err := s.cron.AddFunc(spec, s.fire); err != nil {
			return nil, fmt.Errorf("failed to schedule reminder %s: %w", rt, err)
		}
		s.times = append(s.times, rt)
	}
	return s, nil
}

// Times returns the scheduled HH:MM times.
func (s *Scheduler) Times() []string {
	return append([]string(nil), s.times...)
}

// Next returns the next time a reminder fires, or the zero time when nothing
// is scheduled.
func (s *Scheduler) Next() time.Time {
	now := time.Now().In(s.cron.Location())
	var next time.Time
	for _, e := range s.cron.Entries() {
		n := e.Schedule.Next(now)
		if next.IsZero() || n.Before(next) {
			next = n
		}
	}
	return next
}

func (s *Scheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	if _, err := s.Check(ctx); err != nil {
		logger.Warn("Reminder failed", "error", err)
	}
}

// Check sends a reminder unless today is already complete. It reports whether
// a notification was sent.
func (s *Scheduler) Check(ctx context.Context) (bool, error) {
	date, percent, complete, err := s.source.Progress()
	if err != nil {
		return false, fmt.Errorf("failed to read progress: %w", err)
	}
	if complete {
		logger.Debug("Day complete, skipping reminder", "date", date)
		return false, nil
	}
	if err := s.sender.Notify(ctx, notifier.KindReminder, Message(percent)); err != nil {
		return false, err
	}
	logger.Info("Reminder sent", "date", date, "percent", percent)
	return true, nil
}

// Run starts the schedule and blocks until ctx ends, then waits for running
// jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	logger.Info("Reminder scheduler started", "times", strings.Join(s.times, ","))

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	logger.Info("Reminder scheduler stopped")
	return nil
}
