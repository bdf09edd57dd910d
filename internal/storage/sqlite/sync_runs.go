package sqlite

import (
	"database/sql"
	"time"

	"github.com/julianstephens/tally/internal/models"
)

func (s *Store) RecordSyncRun(run models.SyncRun) error {
	var finishedAt, runErr sql.NullString
	if run.FinishedAt != nil {
		finishedAt = sql.NullString{String: run.FinishedAt.UTC().Format(time.RFC3339), Valid: true}
	}
	if run.Error != "" {
		runErr = sql.NullString{String: run.Error, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO sync_runs (id, remote, started_at, finished_at, pulled, pushed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			pulled = excluded.pulled,
			pushed = excluded.pushed,
			error = excluded.error`,
		run.ID, run.Remote, run.StartedAt.UTC().Format(time.RFC3339), finishedAt, run.Pulled, run.Pushed, runErr)
	return err
}

func (s *Store) GetSyncRuns(limit int) ([]models.SyncRun, error) {
	query := "SELECT id, remote, started_at, finished_at, pulled, pushed, error FROM sync_runs ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var (
			run                models.SyncRun
			startedAt          string
			finishedAt, runErr sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Remote, &startedAt, &finishedAt, &run.Pulled, &run.Pushed, &runErr); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if finishedAt.Valid {
			if t, err := time.Parse(time.RFC3339, finishedAt.String); err == nil {
				run.FinishedAt = &t
			}
		}
		run.Error = runErr.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
