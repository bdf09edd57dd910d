package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/notifier"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/sqlite"
	"github.com/julianstephens/tally/internal/tracker"
)

type Context struct {
	Store    storage.Provider
	Tracker  *tracker.Tracker
	Config   *config.Config
	Notifier notifier.Sender

	Out io.Writer
	In  io.Reader
}

// NewContext wires a tracker over store. Output goes to stdout unless Out is replaced.
func NewContext(store storage.Provider, cfg *config.Config, sender notifier.Sender, opts ...tracker.Option) *Context {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.Timezone != "" {
		opts = append([]tracker.Option{tracker.WithTimezone(cfg.Timezone)}, opts...)
	}
	if sender != nil {
		opts = append([]tracker.Option{tracker.WithNotifier(sender)}, opts...)
	}
	return &Context{
		Store:    store,
		Tracker:  tracker.New(store, opts...),
		Config:   cfg,
		Notifier: sender,
		Out:      os.Stdout,
		In:       os.Stdin,
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question on In. Anything but y/yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// BackupManager returns the backup manager for SQLite stores.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates a backup and logs failures without interrupting the command.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// DryRunSender prints notifications instead of delivering them.
type DryRunSender struct {
	Out io.Writer
}

func (s DryRunSender) Notify(_ context.Context, kind notifier.Kind, text string) error {
	_, err := fmt.Fprintf(s.Out, "[%s] %s\n", kind, text)
	return err
}
