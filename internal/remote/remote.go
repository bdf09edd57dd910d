// Package remote exposes a secondary history store as a sync target.
package remote

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/factory"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

// ErrUnsupportedRemote is returned by Open for targets it cannot interpret.
var ErrUnsupportedRemote = errors.New("unsupported remote: expected a PostgreSQL connection string, a .db file or a .json file")

// Remote is a store entries and achievements can be pulled from and pushed to.
// Every call honours ctx cancellation.
type Remote interface {
	Name() string
	FetchEntries(ctx context.Context) ([]models.DailyEntry, error)
	FetchAchievements(ctx context.Context) ([]string, error)
	PushEntries(ctx context.Context, entries []models.DailyEntry) error
	PushAchievements(ctx context.Context, ids []string, at time.Time) error
	Close() error
}

// Open resolves target into a Remote. PostgreSQL passwords are read from the
// keyring; a connection string carrying one is rejected.
func Open(target string) (Remote, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrUnsupportedRemote
	}

	switch factory.Detect(target) {
	case factory.KindPostgres:
		connStr, err := factory.WithKeyringPassword(target)
		if err != nil {
			return nil, err
		}
		store := postgres.New(connStr)
		if err := store.Init(); err != nil {
			return nil, fmt.Errorf("failed to open remote: %w", err)
		}
		return &postgresRemote{store: store}, nil
	case factory.KindJSON:
	default:
		ext := strings.ToLower(filepath.Ext(target))
		if ext != ".db" && ext != ".sqlite" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedRemote, target)
		}
	}

	p, err := factory.New(target)
	if err != nil {
		return nil, err
	}
	err = p.Load()
	if errors.Is(err, storage.ErrNotInitialized) {
		err = p.Init()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open remote %s: %w", target, err)
	}
	return NewProviderRemote(p, target), nil
}
