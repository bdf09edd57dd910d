package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/cli/backups"
	"github.com/julianstephens/tally/internal/cli/checklist"
	"github.com/julianstephens/tally/internal/cli/progress"
	"github.com/julianstephens/tally/internal/cli/settings"
	"github.com/julianstephens/tally/internal/cli/system"
	"github.com/julianstephens/tally/internal/cli/templates"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/notifier"
	"github.com/julianstephens/tally/internal/storage/factory"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path (.db or .json) or PostgreSQL connection string. Passwords belong in the OS keyring, not the connection string. Defaults to TALLY_DB_CONNECTION, then ~/.config/tally/tally.db." type:"string"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize tally storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive checklist." default:"1"`

	Today        checklist.TodayCmd      `cmd:"" help:"Show a day's checklist and score."`
	Check        checklist.CheckCmd      `cmd:"" help:"Check items by id."`
	Uncheck      checklist.UncheckCmd    `cmd:"" help:"Uncheck items by id."`
	Target       checklist.TargetCmd     `cmd:"" help:"Record fiber or water intake."`
	Note         checklist.NoteCmd       `cmd:"" help:"Set a day's notes."`
	Streak       progress.StreakCmd      `cmd:"" help:"Show the current and longest streak."`
	Stats        progress.StatsCmd       `cmd:"" help:"Show completion statistics."`
	Achievements progress.AchievementsCmd `cmd:"" help:"Show unlocked achievements."`

	Template struct {
		Show   templates.TemplateShowCmd   `cmd:"" help:"Show the checklist template." default:"1"`
		Export templates.TemplateExportCmd `cmd:"" help:"Export the template as JSON."`
		Import templates.TemplateImportCmd `cmd:"" help:"Replace the template from JSON and rescore history."`
	} `cmd:"" help:"Manage the checklist template."`

	Sync   system.SyncCmd   `cmd:"" help:"Merge history with a remote store."`
	Remind system.RemindCmd `cmd:"" help:"Run the reminder daemon."`
	Clear  system.ClearCmd  `cmd:"" help:"Delete all entries, the streak and achievements."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a remote database password."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show whether a password is stored."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a stored password."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage remote credentials in the OS keyring."`

	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage application settings."`

	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

// Top-level commands that open the store themselves or do not need it.
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily checklist with streaks and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	target := CLI.Config
	if target == "" {
		target = cfg.DBConnection
	}
	if target == "" {
		target = constants.DefaultConfigPath
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir(target)}); err != nil {
		errors.Fatal(err)
	}

	store, err := factory.New(target)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	if !skipLoad[strings.Fields(ctx.Command())[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(store, cfg, notifier.New())
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// configDir is where logs live: next to a local database, or the user config
// directory for PostgreSQL.
func configDir(target string) string {
	if factory.Detect(target) != factory.KindPostgres {
		return filepath.Dir(factory.ExpandPath(target))
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), constants.AppName)
	}
	return filepath.Join(dir, constants.AppName)
}
