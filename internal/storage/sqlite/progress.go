package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/tally/internal/models"
)

func (s *Store) GetStreak() (models.Streak, error) {
	var streak models.Streak
	err := s.db.QueryRow("SELECT current, longest FROM streak WHERE id = 1").Scan(&streak.Current, &streak.Longest)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Streak{}, nil
	}
	return streak, err
}

func (s *Store) SaveStreak(streak models.Streak) error {
	_, err := s.db.Exec(`
		INSERT INTO streak (id, current, longest, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current = excluded.current,
			longest = excluded.longest,
			updated_at = excluded.updated_at`,
		streak.Current, streak.Longest, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetUnlockedAchievements() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM achievements ORDER BY unlocked_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) UnlockAchievement(id string, at time.Time) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)",
		id, at.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) ClearData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"entries", "streak", "achievements"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return tx.Commit()
}
