package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/remote"
)

type SyncCmd struct {
	Remote  string `help:"Remote PostgreSQL connection string, .db or .json file. Defaults to TALLY_REMOTE."`
	History int    `help:"Show the most recent sync runs instead of syncing." default:"0"`
}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	if c.History > 0 {
		return c.showHistory(ctx)
	}

	target := c.Remote
	if target == "" {
		target = ctx.Config.Remote
	}
	if target == "" {
		return errors.New("no remote configured: pass --remote or set TALLY_REMOTE")
	}

	r, err := remote.Open(target)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx.PerformAutomaticBackup()
	ctx.Printf("Syncing with %s...\n", r.Name())
	run, err := ctx.Tracker.Sync(context.Background(), r, ctx.Config.SyncTimeout)
	if err != nil {
		return fmt.Errorf("sync failed, local data unchanged: %w", err)
	}
	ctx.Printf("✓ Pulled %d entries, pushed %d entries\n", run.Pulled, run.Pushed)
	return nil
}

func (c *SyncCmd) showHistory(ctx *cli.Context) error {
	runs, err := ctx.Store.GetSyncRuns(c.History)
	if err != nil {
		return fmt.Errorf("failed to get sync runs: %w", err)
	}
	if len(runs) == 0 {
		ctx.Println("No sync runs recorded.")
		return nil
	}
	for _, run := range runs {
		status := "✓"
		if run.Error != "" {
			status = "❌"
		}
		duration := "-"
		if run.FinishedAt != nil {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		ctx.Printf("%s %s  %-12s pulled %d, pushed %d  (%s)\n",
			status, run.StartedAt.Local().Format("2006-01-02 15:04"), run.Remote, run.Pulled, run.Pushed, duration)
		if run.Error != "" {
			ctx.Printf("    %s\n", run.Error)
		}
	}
	return nil
}
