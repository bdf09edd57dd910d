package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/history"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/remote"
	"github.com/julianstephens/tally/internal/scoring"
)

// Sync pulls the remote history, merges it into the local store keeping
// local entries on conflict, then pushes the merged history back. Achievement
// ids are unioned. The whole exchange is bounded by timeout; on failure local
// data is left as it was before the merge step. Every attempt is recorded.
func (t *Tracker) Sync(ctx context.Context, r remote.Remote, timeout time.Duration) (models.SyncRun, error) {
	if timeout <= 0 {
		timeout = constants.DefaultSyncTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := models.SyncRun{
		ID:        uuid.New().String(),
		Remote:    r.Name(),
		StartedAt: t.clock().UTC(),
	}
	logger.Info("Sync started", "sync", run.ID, "remote", run.Remote)

	err := t.sync(ctx, r, &run)

	finished := t.clock().UTC()
	run.FinishedAt = &finished
	if err != nil {
		run.Error = err.Error()
		logger.Error("Sync failed", "sync", run.ID, "error", err)
	} else {
		logger.Info("Sync finished", "sync", run.ID, "pulled", run.Pulled, "pushed", run.Pushed)
	}
	if recErr := t.store.RecordSyncRun(run); recErr != nil {
		logger.Warn("Failed to record sync run", "sync", run.ID, "error", recErr)
	}
	return run, err
}

func (t *Tracker) sync(ctx context.Context, r remote.Remote, run *models.SyncRun) error {
	var (
		remoteEntries []models.DailyEntry
		remoteIDs     []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		remoteEntries, err = r.FetchEntries(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch remote entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		remoteIDs, err = r.FetchAchievements(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch remote achievements: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	merged, localIDs, err := t.mergeRemote(ctx, remoteEntries, remoteIDs, run)
	if err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.PushEntries(gctx, merged); err != nil {
			return fmt.Errorf("failed to push entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if len(localIDs) == 0 {
			return nil
		}
		if err := r.PushAchievements(gctx, localIDs, t.clock().UTC()); err != nil {
			return fmt.Errorf("failed to push achievements: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	run.Pushed = len(merged)
	return nil
}

// mergeRemote applies the pulled data locally and returns what to push.
func (t *Tracker) mergeRemote(ctx context.Context, remoteEntries []models.DailyEntry, remoteIDs []string, run *models.SyncRun) ([]models.DailyEntry, []string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tmpl, err := t.store.GetTemplate()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load template: %w", err)
	}
	local, err := t.store.GetEntries()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load entries: %w", err)
	}

	merged, adopted := history.Merge(local, remoteEntries)
	for i := range adopted {
		adopted[i] = adopted[i].Clone()
		scoring.Recompute(&adopted[i], tmpl)
	}
	if len(adopted) > 0 {
		if err := t.store.SaveEntries(adopted); err != nil {
			return nil, nil, fmt.Errorf("failed to save pulled entries: %w", err)
		}
	}
	run.Pulled = len(adopted)

	localIDs, err := t.store.GetUnlockedAchievements()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	have := make(map[string]struct{}, len(localIDs))
	for _, id := range localIDs {
		have[id] = struct{}{}
	}
	now := t.clock().UTC()
	for _, id := range remoteIDs {
		if _, ok := have[id]; ok {
			continue
		}
		if _, ok := achievements.Lookup(id); !ok {
			logger.Warn("Ignoring unknown remote achievement", "id", id)
			continue
		}
		if err := t.store.UnlockAchievement(id, now); err != nil {
			return nil, nil, fmt.Errorf("failed to unlock %s: %w", id, err)
		}
		have[id] = struct{}{}
		localIDs = append(localIDs, id)
	}

	update, err := t.refresh(tmpl)
	if err != nil {
		return nil, nil, err
	}
	for _, a := range update.Unlocked {
		localIDs = append(localIDs, a.ID)
	}

	// push the rescored copies so both sides agree on flags
	for i := range merged {
		if e, ok := history.Find(adopted, merged[i].Date); ok {
			merged[i] = e
		}
	}
	return merged, localIDs, nil
}
