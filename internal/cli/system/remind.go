package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/notifier"
	"github.com/julianstephens/tally/internal/reminder"
)

type RemindCmd struct {
	Once   bool `help:"Check once and exit instead of running the reminder daemon."`
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if ctx.Config.Timezone != "" {
		settings.Timezone = ctx.Config.Timezone
	}
	if !settings.NotificationsEnabled {
		ctx.Println("Notifications are disabled in settings.")
		return nil
	}

	var sender notifier.Sender = ctx.Notifier
	if c.DryRun || sender == nil {
		sender = cli.DryRunSender{Out: ctx.Out}
	}

	sched, err := reminder.NewScheduler(ctx.Tracker, sender, settings)
	if err != nil {
		return err
	}

	if c.Once {
		sent, err := sched.Check(context.Background())
		if err != nil {
			return err
		}
		if !sent {
			ctx.Println("Today's checklist is complete. No reminder sent.")
		}
		return nil
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Reminders at %s (next: %s). Press Ctrl+C to stop.\n",
		strings.Join(sched.Times(), ", "), sched.Next().Format("2006-01-02 15:04"))
	logger.Info("Reminder daemon started", "times", sched.Times())
	return sched.Run(sigCtx)
}
