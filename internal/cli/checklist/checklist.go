package checklist

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/tracker"
)

type TodayCmd struct {
	Date string `help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	entry, tmpl, err := ctx.Tracker.Entry(c.Date)
	if err != nil {
		return err
	}
	cli.RenderEntry(ctx.Out, entry, tmpl)
	return nil
}

type CheckCmd struct {
	Items []string `arg:"" help:"Item ids to check (e.g. a1 d3)."`
	Date  string   `help:"Day to edit (YYYY-MM-DD). Defaults to today."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	return setItems(ctx, c.Date, c.Items, true)
}

type UncheckCmd struct {
	Items []string `arg:"" help:"Item ids to uncheck."`
	Date  string   `help:"Day to edit (YYYY-MM-DD). Defaults to today."`
}

func (c *UncheckCmd) Run(ctx *cli.Context) error {
	return setItems(ctx, c.Date, c.Items, false)
}

func setItems(ctx *cli.Context, date string, ids []string, checked bool) error {
	if len(ids) == 0 {
		return fmt.Errorf("no items given")
	}
	// report unlocks from every step, not just the last
	var final tracker.Update
	for _, id := range ids {
		u, err := ctx.Tracker.SetItem(date, id, checked)
		if err != nil {
			return err
		}
		u.Unlocked = append(final.Unlocked, u.Unlocked...)
		if u.Milestone == "" {
			u.Milestone = final.Milestone
		}
		final = u
	}
	cli.RenderUpdate(ctx.Out, final)
	return nil
}

type TargetCmd struct {
	Kind  string  `arg:"" enum:"fiber,water" help:"Target to record: fiber (g) or water (L)."`
	Value float64 `arg:"" help:"Amount consumed so far."`
	Goal  float64 `help:"Override the day's goal."`
	Date  string  `help:"Day to edit (YYYY-MM-DD). Defaults to today."`
}

func (c *TargetCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Tracker.SetTarget(c.Date, constants.TargetKind(c.Kind), c.Value, c.Goal)
	if err != nil {
		return err
	}
	cli.RenderUpdate(ctx.Out, u)
	return nil
}

type NoteCmd struct {
	Text string `arg:"" help:"Note text. An empty string clears the note."`
	Date string `help:"Day to edit (YYYY-MM-DD). Defaults to today."`
}

func (c *NoteCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Tracker.SetNotes(c.Date, c.Text)
	if err != nil {
		return err
	}
	ctx.Printf("📝 Note saved for %s\n", u.Entry.Date)
	return nil
}
