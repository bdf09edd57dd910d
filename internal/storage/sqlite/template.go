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

func (s *Store) GetTemplate() (models.Template, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM template WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Template{}, fmt.Errorf("template: %w", storage.ErrNotFound)
	}
	if err != nil {
		return models.Template{}, err
	}

	var tmpl models.Template
	if err := json.Unmarshal([]byte(data), &tmpl); err != nil {
		return models.Template{}, fmt.Errorf("failed to decode template: %w", err)
	}
	return tmpl, nil
}

func (s *Store) SaveTemplate(tmpl models.Template) error {
	data, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO template (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	return err
}
