package system

import (
	"github.com/julianstephens/tally/internal/cli"
)

type ClearCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ctx.Println("⚠️  This removes every daily entry, the streak and unlocked achievements.")
		ctx.Println("   The template and settings are kept.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.Clear(); err != nil {
		return err
	}
	ctx.Println("✓ All entries, the streak and achievements were cleared.")
	return nil
}
