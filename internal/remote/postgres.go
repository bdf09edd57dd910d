package remote

import (
	"context"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

type postgresRemote struct {
	store *postgres.Store
}

func (r *postgresRemote) Name() string {
	return r.store.GetConfigPath()
}

func (r *postgresRemote) FetchEntries(ctx context.Context) ([]models.DailyEntry, error) {
	return r.store.EntriesContext(ctx)
}

func (r *postgresRemote) FetchAchievements(ctx context.Context) ([]string, error) {
	return r.store.UnlockedAchievementsContext(ctx)
}

func (r *postgresRemote) PushEntries(ctx context.Context, entries []models.DailyEntry) error {
	return r.store.SaveEntriesContext(ctx, entries)
}

func (r *postgresRemote) PushAchievements(ctx context.Context, ids []string, at time.Time) error {
	return r.store.UnlockAchievementsContext(ctx, ids, at)
}

func (r *postgresRemote) Close() error {
	return r.store.Close()
}
