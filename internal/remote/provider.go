package remote

import (
	"context"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

// ProviderRemote adapts a storage.Provider without context support. A call
// abandoned on cancellation still runs to completion in the background.
type ProviderRemote struct {
	p    storage.Provider
	name string
}

// NewProviderRemote wraps an already loaded provider.
func NewProviderRemote(p storage.Provider, name string) *ProviderRemote {
	return &ProviderRemote{p: p, name: name}
}

// run executes fn unless ctx ends first.
func run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}

func (r *ProviderRemote) Name() string {
	return r.name
}

func (r *ProviderRemote) FetchEntries(ctx context.Context) ([]models.DailyEntry, error) {
	return run(ctx, r.p.GetEntries)
}

func (r *ProviderRemote) FetchAchievements(ctx context.Context) ([]string, error) {
	return run(ctx, r.p.GetUnlockedAchievements)
}

func (r *ProviderRemote) PushEntries(ctx context.Context, entries []models.DailyEntry) error {
	_, err := run(ctx, func() (struct{}, error) {
		return struct{}{}, r.p.SaveEntries(entries)
	})
	return err
}

func (r *ProviderRemote) PushAchievements(ctx context.Context, ids []string, at time.Time) error {
	_, err := run(ctx, func() (struct{}, error) {
		for _, id := range ids {
			if err := r.p.UnlockAchievement(id, at); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	return err
}

func (r *ProviderRemote) Close() error {
	return r.p.Close()
}
