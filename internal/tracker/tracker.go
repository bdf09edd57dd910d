// Package tracker is the application service behind every command: it edits
// daily entries and keeps the derived streak and achievement state in step.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/notifier"
	"github.com/julianstephens/tally/internal/scoring"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/streak"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownItem    = errors.New("unknown item")
	ErrUnknownTarget  = errors.New("unknown target, expected fiber or water")
)

const notifyTimeout = 3 * time.Second

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithNotifier sends unlock and milestone notifications through s.
func WithNotifier(s notifier.Sender) Option {
	return func(t *Tracker) { t.sender = s }
}

// WithTimezone overrides the stored timezone when resolving today.
func WithTimezone(tz string) Option {
	return func(t *Tracker) { t.timezone = tz }
}

type Tracker struct {
	store    storage.Provider
	clock    func() time.Time
	sender   notifier.Sender
	timezone string

	// mu serializes read-modify-write cycles on the store.
	mu sync.Mutex
}

// New returns a Tracker over a loaded store.
func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update is the outcome of an edit.
type Update struct {
	Entry     models.DailyEntry
	Percent   int
	Streak    models.Streak
	Unlocked  []achievements.Achievement
	Milestone string
}

// Store returns the underlying provider.
func (t *Tracker) Store() storage.Provider {
	return t.store
}

// Now returns the tracker clock's current time.
func (t *Tracker) Now() time.Time {
	return t.clock()
}

func (t *Tracker) location() (*time.Location, error) {
	tz := t.timezone
	if tz == "" {
		settings, err := t.store.GetSettings()
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		tz = settings.Timezone
	}
	return utils.LoadLocation(tz)
}

// Today returns the current civil date in the configured timezone.
func (t *Tracker) Today() (string, error) {
	loc, err := t.location()
	if err != nil {
		return "", err
	}
	return utils.FormatDay(t.clock().In(loc)), nil
}

func (t *Tracker) resolveDate(date string) (string, error) {
	if date == "" {
		return t.Today()
	}
	if err := utils.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// Entry returns the entry for date, or today when date is empty. A missing
// entry is built from the template but not saved until it is edited.
func (t *Tracker) Entry(date string) (models.DailyEntry, models.Template, error) {
	date, err := t.resolveDate(date)
	if err != nil {
		return models.DailyEntry{}, models.Template{}, err
	}
	tmpl, err := t.store.GetTemplate()
	if err != nil {
		return models.DailyEntry{}, models.Template{}, fmt.Errorf("failed to load template: %w", err)
	}
	entry, err := t.entry(date, tmpl)
	return entry, tmpl, err
}

func (t *Tracker) entry(date string, tmpl models.Template) (models.DailyEntry, error) {
	entry, err := t.store.GetEntry(date)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.DailyEntry{}, fmt.Errorf("failed to load entry %s: %w", date, err)
	}
	settings, err := t.store.GetSettings()
	if err != nil {
		return models.DailyEntry{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return scoring.NewEntry(date, tmpl, settings), nil
}

// edit loads the entry for date, applies fn and saves the result.
func (t *Tracker) edit(date string, fn func(*models.DailyEntry, models.Template) error) (Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	date, err := t.resolveDate(date)
	if err != nil {
		return Update{}, err
	}
	tmpl, err := t.store.GetTemplate()
	if err != nil {
		return Update{}, fmt.Errorf("failed to load template: %w", err)
	}
	entry, err := t.entry(date, tmpl)
	if err != nil {
		return Update{}, err
	}
	if err := fn(&entry, tmpl); err != nil {
		return Update{}, err
	}

	entry.UpdatedAt = t.clock().UTC()
	scoring.Recompute(&entry, tmpl)
	if err := t.store.SaveEntry(entry); err != nil {
		return Update{}, fmt.Errorf("failed to save entry %s: %w", date, err)
	}
	logger.Debug("Entry saved", "date", entry.Date, "complete", entry.DayComplete)

	update, err := t.refresh(tmpl)
	if err != nil {
		return Update{}, err
	}
	update.Entry = entry
	update.Percent = scoring.Percent(entry, tmpl)
	return update, nil
}

// refresh recalculates the streak, stores it and unlocks newly earned
// achievements. Callers hold t.mu.
func (t *Tracker) refresh(tmpl models.Template) (Update, error) {
	today, err := t.Today()
	if err != nil {
		return Update{}, err
	}
	entries, err := t.store.GetEntries()
	if err != nil {
		return Update{}, fmt.Errorf("failed to load entries: %w", err)
	}
	previous, err := t.store.GetStreak()
	if err != nil {
		return Update{}, fmt.Errorf("failed to load streak: %w", err)
	}

	current := streak.Calculate(entries, tmpl, today)
	if current != previous {
		if err := t.store.SaveStreak(current); err != nil {
			return Update{}, fmt.Errorf("failed to save streak: %w", err)
		}
	}

	unlockedIDs, err := t.store.GetUnlockedAchievements()
	if err != nil {
		return Update{}, fmt.Errorf("failed to load achievements: %w", err)
	}
	stats := achievements.ComputeStats(entries, tmpl, current.Current, current.Longest)
	newly := achievements.NewlyUnlocked(stats, unlockedIDs)

	now := t.clock().UTC()
	for _, a := range newly {
		if err := t.store.UnlockAchievement(a.ID, now); err != nil {
			return Update{}, fmt.Errorf("failed to unlock %s: %w", a.ID, err)
		}
		logger.Info("Achievement unlocked", "id", a.ID)
	}

	update := Update{Streak: current, Unlocked: newly}
	if current.Current > previous.Current {
		if msg, ok := achievements.StreakMilestone(current.Current); ok {
			update.Milestone = msg
		}
	}
	t.announce(update)
	return update, nil
}

func (t *Tracker) announce(u Update) {
	if t.sender == nil || (len(u.Unlocked) == 0 && u.Milestone == "") {
		return
	}
	settings, err := t.store.GetSettings()
	if err != nil || !settings.NotificationsEnabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	for _, a := range u.Unlocked {
		t.notify(ctx, notifier.KindAchievement, fmt.Sprintf("%s %s: %s", a.Emoji, a.Name, a.Description))
	}
	if u.Milestone != "" {
		t.notify(ctx, notifier.KindMilestone, u.Milestone)
	}
}

func (t *Tracker) notify(ctx context.Context, kind notifier.Kind, text string) {
	if err := t.sender.Notify(ctx, kind, text); err != nil {
		logger.Debug("Notification not delivered", "kind", kind, "error", err)
	}
}

// SetItem checks or unchecks a template item on date. Checking records the
// time; unchecking clears it.
func (t *Tracker) SetItem(date, itemID string, checked bool) (Update, error) {
	return t.edit(date, func(e *models.DailyEntry, tmpl models.Template) error {
		item, err := findItem(e, tmpl, itemID)
		if err != nil {
			return err
		}
		t.setChecked(item, checked)
		return nil
	})
}

// Toggle flips a template item on date.
func (t *Tracker) Toggle(date, itemID string) (Update, error) {
	return t.edit(date, func(e *models.DailyEntry, tmpl models.Template) error {
		item, err := findItem(e, tmpl, itemID)
		if err != nil {
			return err
		}
		t.setChecked(item, !item.Checked)
		return nil
	})
}

func (t *Tracker) setChecked(item *models.CheckedItem, checked bool) {
	if checked && !item.Checked {
		now := t.clock().UTC()
		item.Timestamp = &now
	}
	if !checked {
		item.Timestamp = nil
	}
	item.Checked = checked
}

// findItem locates itemID in the entry, adding the section or item when the
// template gained it after the entry was created.
func findItem(e *models.DailyEntry, tmpl models.Template, itemID string) (*models.CheckedItem, error) {
	for _, ts := range tmpl.Sections {
		if _, ok := ts.FindItem(itemID); !ok {
			continue
		}
		ds := e.FindSection(ts.Name)
		if ds == nil {
			e.Sections = append(e.Sections, models.DailySection{SectionName: ts.Name})
			ds = &e.Sections[len(e.Sections)-1]
		}
		for i := range ds.Items {
			if ds.Items[i].ID == itemID {
				return &ds.Items[i], nil
			}
		}
		ds.Items = append(ds.Items, models.CheckedItem{ID: itemID})
		return &ds.Items[len(ds.Items)-1], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
}

// SetSection checks or unchecks every item of a section on date.
func (t *Tracker) SetSection(date, section string, checked bool) (Update, error) {
	return t.edit(date, func(e *models.DailyEntry, tmpl models.Template) error {
		ts, ok := tmpl.FindSection(section)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSection, section)
		}
		for _, it := range ts.Items {
			item, err := findItem(e, tmpl, it.ID)
			if err != nil {
				return err
			}
			t.setChecked(item, checked)
		}
		return nil
	})
}

// SetTarget records a numeric target value on date. A positive goal also
// replaces that day's goal.
func (t *Tracker) SetTarget(date string, kind constants.TargetKind, value, goal float64) (Update, error) {
	if value < 0 || goal < 0 {
		return Update{}, fmt.Errorf("%s values cannot be negative", kind)
	}
	return t.edit(date, func(e *models.DailyEntry, _ models.Template) error {
		var target models.Target
		switch kind {
		case constants.TargetFiber:
			target = e.FiberOrDefault()
		case constants.TargetWater:
			target = e.WaterOrDefault()
		default:
			return fmt.Errorf("%w: %q", ErrUnknownTarget, kind)
		}
		target.Value = value
		if goal > 0 {
			target.Target = goal
		}
		if kind == constants.TargetFiber {
			e.Fiber = &target
		} else {
			e.Water = &target
		}
		return nil
	})
}

// SetNotes replaces the free-text notes on date.
func (t *Tracker) SetNotes(date, notes string) (Update, error) {
	return t.edit(date, func(e *models.DailyEntry, _ models.Template) error {
		e.Notes = notes
		return nil
	})
}

// Recalculate rescores every stored entry against the current template and
// refreshes the streak and achievements. Used after the template changes.
func (t *Tracker) Recalculate() (Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rescore()
}

func (t *Tracker) rescore() (Update, error) {
	tmpl, err := t.store.GetTemplate()
	if err != nil {
		return Update{}, fmt.Errorf("failed to load template: %w", err)
	}
	entries, err := t.store.GetEntries()
	if err != nil {
		return Update{}, fmt.Errorf("failed to load entries: %w", err)
	}

	var changed []models.DailyEntry
	for _, e := range entries {
		before := e.DayComplete
		sections := make([]bool, len(e.Sections))
		for i, s := range e.Sections {
			sections[i] = s.SectionComplete
		}
		scoring.Recompute(&e, tmpl)
		dirty := before != e.DayComplete
		for i, s := range e.Sections {
			dirty = dirty || sections[i] != s.SectionComplete
		}
		if dirty {
			changed = append(changed, e)
		}
	}
	if len(changed) > 0 {
		if err := t.store.SaveEntries(changed); err != nil {
			return Update{}, fmt.Errorf("failed to save rescored entries: %w", err)
		}
		logger.Info("Rescored entries", "count", len(changed))
	}
	return t.refresh(tmpl)
}

// ImportTemplate replaces the template and rescores history against it.
func (t *Tracker) ImportTemplate(tmpl models.Template) (Update, error) {
	result := validation.New().ValidateTemplate(tmpl)
	if err := result.Err(); err != nil {
		return Update{}, fmt.Errorf("invalid template: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.SaveTemplate(tmpl); err != nil {
		return Update{}, fmt.Errorf("failed to save template: %w", err)
	}
	return t.rescore()
}

// Clear removes entries, the streak and unlocked achievements. Settings and
// the template are kept.
func (t *Tracker) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.ClearData(); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	logger.Info("Cleared entries, streak and achievements")
	return nil
}
