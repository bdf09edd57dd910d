package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/notifier"
)

// NotifyCmd sends a single notification through the tray app.
type NotifyCmd struct {
	Text   string `arg:"" help:"Notification text."`
	Kind   string `help:"Notification kind." enum:"reminder,achievement,milestone" default:"reminder"`
	DryRun bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	var sender notifier.Sender = ctx.Notifier
	if c.DryRun || sender == nil {
		sender = cli.DryRunSender{Out: ctx.Out}
	}

	nctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sender.Notify(nctx, notifier.Kind(c.Kind), c.Text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
