package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

const entryColumns = `date, id, sections, day_complete, notes,
	fiber_value, fiber_target, water_value, water_target, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.DailyEntry, error) {
	var (
		e                     models.DailyEntry
		sections, updatedAt   string
		dayComplete           int
		fiberValue, fiberGoal sql.NullFloat64
		waterValue, waterGoal sql.NullFloat64
	)
	if err := row.Scan(&e.Date, &e.ID, &sections, &dayComplete, &e.Notes,
		&fiberValue, &fiberGoal, &waterValue, &waterGoal, &updatedAt); err != nil {
		return models.DailyEntry{}, err
	}

	if err := json.Unmarshal([]byte(sections), &e.Sections); err != nil {
		return models.DailyEntry{}, fmt.Errorf("failed to decode sections for %s: %w", e.Date, err)
	}
	e.DayComplete = dayComplete == 1
	if fiberGoal.Valid {
		e.Fiber = &models.Target{Value: fiberValue.Float64, Target: fiberGoal.Float64}
	}
	if waterGoal.Valid {
		e.Water = &models.Target{Value: waterValue.Float64, Target: waterGoal.Float64}
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		e.UpdatedAt = t
	}
	return e, nil
}

func targetArgs(t *models.Target) (sql.NullFloat64, sql.NullFloat64) {
	if t == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: t.Value, Valid: true}, sql.NullFloat64{Float64: t.Target, Valid: true}
}

func (s *Store) GetEntry(date string) (models.DailyEntry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE date = ?", date)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyEntry{}, fmt.Errorf("entry %s: %w", date, storage.ErrNotFound)
	}
	return e, err
}

func (s *Store) SaveEntry(entry models.DailyEntry) error {
	return s.SaveEntries([]models.DailyEntry{entry})
}

func (s *Store) SaveEntries(entries []models.DailyEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			id = excluded.id,
			sections = excluded.sections,
			day_complete = excluded.day_complete,
			notes = excluded.notes,
			fiber_value = excluded.fiber_value,
			fiber_target = excluded.fiber_target,
			water_value = excluded.water_value,
			water_target = excluded.water_target,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		sections, err := json.Marshal(e.Sections)
		if err != nil {
			return fmt.Errorf("failed to encode sections for %s: %w", e.Date, err)
		}
		fiberValue, fiberGoal := targetArgs(e.Fiber)
		waterValue, waterGoal := targetArgs(e.Water)
		updatedAt := e.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}
		dayComplete := 0
		if e.DayComplete {
			dayComplete = 1
		}

		if _, err := stmt.Exec(e.Date, e.ID, string(sections), dayComplete, e.Notes,
			fiberValue, fiberGoal, waterValue, waterGoal,
			updatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to save entry %s: %w", e.Date, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetEntries() ([]models.DailyEntry, error) {
	rows, err := s.db.Query("SELECT " + entryColumns + " FROM entries ORDER BY date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DailyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
