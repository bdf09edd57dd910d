package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/factory"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Reset an existing store before initialization."`
	Source string `help:"Database path, JSON file or PostgreSQL connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	target := ctx.Store.GetConfigPath()
	_, remote := ctx.Store.(*postgres.Store)
	local := !remote

	if c.Source != "" && local && samePath(c.Source, target) {
		return fmt.Errorf("source and destination are the same: %s", target)
	}

	if c.Force && local {
		if _, err := os.Stat(target); err == nil {
			ctx.PerformAutomaticBackup()
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := c.open(ctx, target); err != nil {
		return err
	}
	if c.Force && !local {
		if err := ctx.Tracker.Clear(); err != nil {
			return err
		}
	}
	ctx.Printf("Initialized tally storage at: %s\n", target)

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// open initializes the store. A JSON file that already exists is loaded
// instead, as its Init refuses to overwrite.
func (c *InitCmd) open(ctx *cli.Context, target string) error {
	if factory.Detect(target) == factory.KindJSON {
		if _, err := os.Stat(target); err == nil {
			return ctx.Store.Load()
		}
	}
	return ctx.Store.Init()
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	source, err := openSource(c.Source)
	if err != nil {
		return err
	}
	defer source.Close()

	ctx.Println("  Migrating settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Migrating template...")
	tmpl, err := source.GetTemplate()
	if err != nil {
		return fmt.Errorf("failed to get template from source: %w", err)
	}
	if err := ctx.Store.SaveTemplate(tmpl); err != nil {
		return fmt.Errorf("failed to save template to destination: %w", err)
	}

	ctx.Println("  Migrating entries...")
	entries, err := source.GetEntries()
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	if len(entries) > 0 {
		if err := ctx.Store.SaveEntries(entries); err != nil {
			return fmt.Errorf("failed to save entries: %w", err)
		}
	}
	ctx.Printf("    Migrated %d entries\n", len(entries))

	ctx.Println("  Migrating achievements...")
	ids, err := source.GetUnlockedAchievements()
	if err != nil {
		return fmt.Errorf("failed to get achievements from source: %w", err)
	}
	migrated := 0
	for _, id := range ids {
		if _, ok := achievements.Lookup(id); !ok {
			continue
		}
		if err := ctx.Store.UnlockAchievement(id, ctx.Tracker.Now()); err != nil {
			return fmt.Errorf("failed to unlock achievement %s: %w", id, err)
		}
		migrated++
	}
	ctx.Printf("    Migrated %d achievements\n", migrated)

	u, err := ctx.Tracker.Recalculate()
	if err != nil {
		return err
	}
	ctx.Printf("  Streak: %d current, %d longest\n", u.Streak.Current, u.Streak.Longest)
	return nil
}

func openSource(source string) (storage.Provider, error) {
	var p storage.Provider
	if factory.Detect(source) == factory.KindPostgres {
		connStr, err := factory.WithKeyringPassword(source)
		if err != nil {
			return nil, err
		}
		p = postgres.New(connStr)
	} else {
		path := factory.ExpandPath(source)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("source not found: %s", source)
		}
		var err error
		if p, err = factory.New(path); err != nil {
			return nil, err
		}
	}
	if err := p.Load(); err != nil {
		return nil, fmt.Errorf("failed to load source database: %w", err)
	}
	return p, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(factory.ExpandPath(a))
	absB, errB := filepath.Abs(factory.ExpandPath(b))
	return errA == nil && errB == nil && absA == absB
}
