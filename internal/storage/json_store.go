package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/tally/internal/history"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

const jsonStoreVersion = 1

type document struct {
	Version      int                  `json:"version"`
	Settings     models.Settings      `json:"settings"`
	Template     models.Template      `json:"template"`
	Entries      []models.DailyEntry  `json:"entries"`
	Streak       models.Streak        `json:"streak"`
	Achievements map[string]time.Time `json:"achievements"` // id -> unlocked at
	SyncRuns     []models.SyncRun     `json:"sync_runs,omitempty"`
}

func defaultDocument() *document {
	return &document{
		Version:      jsonStoreVersion,
		Settings:     models.DefaultSettings(),
		Template:     models.DefaultTemplate(),
		Entries:      []models.DailyEntry{},
		Achievements: make(map[string]time.Time),
	}
}

// JSONStore keeps the whole history in a single JSON file. It is meant for
// small histories and for exchanging data with other tools.
type JSONStore struct {
	path string
	mu   sync.Mutex
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = defaultDocument()
	return s.save()
}

// Load reads the file. Content that cannot be parsed is replaced by defaults
// and a warning is logged; the file itself is only rewritten on the next save.
func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		logger.Warn("Malformed storage file, falling back to defaults", "path", s.path, "error", err)
		s.doc = defaultDocument()
		return nil
	}

	if doc.Achievements == nil {
		doc.Achievements = make(map[string]time.Time)
	}
	if doc.Entries == nil {
		doc.Entries = []models.DailyEntry{}
	}
	// an empty template is valid; only a missing one gets the default
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err == nil {
		if raw, ok := keys["template"]; !ok || string(raw) == "null" {
			doc.Template = models.DefaultTemplate()
		}
	}
	models.ApplyDefaultSettings(&doc.Settings)
	history.SortDesc(doc.Entries)

	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	settings := s.doc.Settings
	settings.ReminderTimes = append([]string(nil), settings.ReminderTimes...)
	return settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) GetTemplate() (models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Template{}, err
	}
	return s.doc.Template, nil
}

func (s *JSONStore) SaveTemplate(tmpl models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Template = tmpl
	return s.save()
}

func (s *JSONStore) GetEntry(date string) (models.DailyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.DailyEntry{}, err
	}
	e, ok := history.Find(s.doc.Entries, date)
	if !ok {
		return models.DailyEntry{}, fmt.Errorf("entry %s: %w", date, ErrNotFound)
	}
	return e.Clone(), nil
}

func (s *JSONStore) SaveEntry(entry models.DailyEntry) error {
	return s.SaveEntries([]models.DailyEntry{entry})
}

func (s *JSONStore) SaveEntries(entries []models.DailyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	for _, e := range entries {
		s.doc.Entries = history.Upsert(s.doc.Entries, e.Clone())
	}
	return s.save()
}

func (s *JSONStore) GetEntries() ([]models.DailyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}
	out := make([]models.DailyEntry, len(s.doc.Entries))
	for i, e := range s.doc.Entries {
		out[i] = e.Clone()
	}
	return out, nil
}

func (s *JSONStore) GetStreak() (models.Streak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.Streak{}, err
	}
	return s.doc.Streak, nil
}

func (s *JSONStore) SaveStreak(streak models.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Streak = streak
	return s.save()
}

func (s *JSONStore) GetUnlockedAchievements() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.doc.Achievements))
	for id := range s.doc.Achievements {
		ids = append(ids, id)
	}
	// unlock order, then id for ties
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := s.doc.Achievements[ids[i]], s.doc.Achievements[ids[j]]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

func (s *JSONStore) UnlockAchievement(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Achievements[id]; ok {
		return nil
	}
	s.doc.Achievements[id] = at.UTC()
	return s.save()
}

func (s *JSONStore) RecordSyncRun(run models.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	for i := range s.doc.SyncRuns {
		if s.doc.SyncRuns[i].ID == run.ID {
			s.doc.SyncRuns[i] = run
			return s.save()
		}
	}
	s.doc.SyncRuns = append(s.doc.SyncRuns, run)
	return s.save()
}

func (s *JSONStore) GetSyncRuns(limit int) ([]models.SyncRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}
	runs := append([]models.SyncRun(nil), s.doc.SyncRuns...)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *JSONStore) ClearData() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Entries = []models.DailyEntry{}
	s.doc.Streak = models.Streak{}
	s.doc.Achievements = make(map[string]time.Time)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
