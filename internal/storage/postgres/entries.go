package postgres

import (
	"context"
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
		sections              []byte
		updatedAt             string
		fiberValue, fiberGoal sql.NullFloat64
		waterValue, waterGoal sql.NullFloat64
	)
	if err := row.Scan(&e.Date, &e.ID, &sections, &e.DayComplete, &e.Notes,
		&fiberValue, &fiberGoal, &waterValue, &waterGoal, &updatedAt); err != nil {
		return models.DailyEntry{}, err
	}

	if err := json.Unmarshal(sections, &e.Sections); err != nil {
		return models.DailyEntry{}, fmt.Errorf("failed to decode sections for %s: %w", e.Date, err)
	}
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
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE date = $1", date)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyEntry{}, fmt.Errorf("entry %s: %w", date, storage.ErrNotFound)
	}
	return e, err
}

func (s *Store) SaveEntry(entry models.DailyEntry) error {
	return s.SaveEntriesContext(context.Background(), []models.DailyEntry{entry})
}

func (s *Store) SaveEntries(entries []models.DailyEntry) error {
	return s.SaveEntriesContext(context.Background(), entries)
}

// SaveEntriesContext upserts entries in one transaction, aborting when ctx is done.
func (s *Store) SaveEntriesContext(ctx context.Context, entries []models.DailyEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (date) DO UPDATE SET
			id = EXCLUDED.id,
			sections = EXCLUDED.sections,
			day_complete = EXCLUDED.day_complete,
			notes = EXCLUDED.notes,
			fiber_value = EXCLUDED.fiber_value,
			fiber_target = EXCLUDED.fiber_target,
			water_value = EXCLUDED.water_value,
			water_target = EXCLUDED.water_target,
			updated_at = EXCLUDED.updated_at`)
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

		if _, err := stmt.ExecContext(ctx, e.Date, e.ID, string(sections), e.DayComplete, e.Notes,
			fiberValue, fiberGoal, waterValue, waterGoal,
			updatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to save entry %s: %w", e.Date, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetEntries() ([]models.DailyEntry, error) {
	return s.EntriesContext(context.Background())
}

// EntriesContext returns every entry, newest first.
func (s *Store) EntriesContext(ctx context.Context) ([]models.DailyEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+entryColumns+" FROM entries ORDER BY date DESC")
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
