package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/tally/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load when no store exists yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'tally init' first")
)

// Provider is the entry repository and everything persisted alongside it.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Template
	GetTemplate() (models.Template, error)
	SaveTemplate(models.Template) error

	// Entries
	// GetEntry returns ErrNotFound when no entry exists for date.
	GetEntry(date string) (models.DailyEntry, error)
	// SaveEntry replaces the entry with the same date or inserts it.
	SaveEntry(models.DailyEntry) error
	// SaveEntries upserts several entries atomically.
	SaveEntries([]models.DailyEntry) error
	// GetEntries returns every entry, newest date first.
	GetEntries() ([]models.DailyEntry, error)

	// Streak
	GetStreak() (models.Streak, error)
	SaveStreak(models.Streak) error

	// Achievements
	GetUnlockedAchievements() ([]string, error)
	// UnlockAchievement is a no-op when id is already unlocked.
	UnlockAchievement(id string, at time.Time) error

	// Sync history
	RecordSyncRun(models.SyncRun) error
	GetSyncRuns(limit int) ([]models.SyncRun, error)

	// ClearData removes entries, the streak and unlocked achievements.
	// Settings and the template are kept.
	ClearData() error

	// Utils
	GetConfigPath() string
}
