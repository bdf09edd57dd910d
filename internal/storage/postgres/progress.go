package postgres

import (
	"context"
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
		INSERT INTO streak (id, current, longest, updated_at) VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			current = EXCLUDED.current,
			longest = EXCLUDED.longest,
			updated_at = EXCLUDED.updated_at`,
		streak.Current, streak.Longest, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetUnlockedAchievements() ([]string, error) {
	return s.UnlockedAchievementsContext(context.Background())
}

// UnlockedAchievementsContext returns unlocked ids in unlock order.
func (s *Store) UnlockedAchievementsContext(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM achievements ORDER BY unlocked_at, id")
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
	return s.UnlockAchievementsContext(context.Background(), []string{id}, at)
}

// UnlockAchievementsContext records ids as unlocked at the given time, keeping
// the earlier timestamp of ids already present.
func (s *Store) UnlockAchievementsContext(ctx context.Context, ids []string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO achievements (id, unlocked_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING",
			id, at.UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return tx.Commit()
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
