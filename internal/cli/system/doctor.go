package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/streak"
	"github.com/julianstephens/tally/internal/validation"
)

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type check struct {
	name string
	// warn turns a failure into a warning.
	warn bool
	// needsDB skips the check when the store could not be loaded.
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Template", needsDB: true, run: checkTemplate},
	{name: "Entries", needsDB: true, run: checkEntries},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Streak cache", warn: true, needsDB: true, run: checkStreakCache},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more checks failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, latest is %d (run 'tally migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'tally backup create'")
	}
	return nil
}

func checkTemplate(ctx *cli.Context) error {
	tmpl, err := ctx.Store.GetTemplate()
	if err != nil {
		return err
	}
	result := validation.New().ValidateTemplate(tmpl)
	return result.Err()
}

func checkEntries(ctx *cli.Context) error {
	tmpl, err := ctx.Store.GetTemplate()
	if err != nil {
		return err
	}
	entries, err := ctx.Store.GetEntries()
	if err != nil {
		return err
	}
	result := validation.New().ValidateEntries(entries, tmpl)
	if result.HasConflicts() {
		logger.Debug("Entry validation failed", "report", result.FormatReport())
		return fmt.Errorf("%d problem(s): %w", len(result.Conflicts), result.Err())
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	result := validation.New().ValidateSettings(settings)
	return result.Err()
}

// checkStreakCache compares the stored streak with a fresh calculation.
func checkStreakCache(ctx *cli.Context) error {
	cached, err := ctx.Store.GetStreak()
	if err != nil {
		return err
	}
	tmpl, err := ctx.Store.GetTemplate()
	if err != nil {
		return err
	}
	entries, err := ctx.Store.GetEntries()
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	fresh := streak.Calculate(entries, tmpl, today)
	if fresh != cached {
		return fmt.Errorf("stored streak %d/%d, calculated %d/%d (any edit refreshes it)",
			cached.Current, cached.Longest, fresh.Current, fresh.Longest)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Tracker.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Tracker.Today(); err != nil {
		return err
	}
	return nil
}
