package constants

import "time"

const (
	AppName            = "tally"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigPath  = "~/.config/tally/tally.db"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tally-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "tally-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.tally"
	TrayExecutablePrefix   = "tally-tray"
	TraySecretHeader       = "X-Tally-Secret"

	// Sync constants
	DefaultSyncTimeout = 15 * time.Second
)

// Scoring constants:
//   - CompletionThreshold is the minimum daily score for a day to count as complete,
//     for a streak, and for the daysAbove80 statistic. It is applied identically at
//     save time and at streak time.
//   - TargetPoints is the number of numeric targets (fiber, water) that add one point
//     each to both the numerator and the denominator of the daily score.
const (
	CompletionThreshold = 0.8
	TargetPoints        = 2

	DefaultFiberTarget = 25.0 // grams
	DefaultWaterTarget = 1.5  // litres
)

// TargetKind identifies a numeric daily target.
type TargetKind string

const (
	TargetFiber TargetKind = "fiber"
	TargetWater TargetKind = "water"
)

// Tier groups achievements for display.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierSpecial      Tier = "special"
)
