package constants

import "time"

// Frequency is how often a habit is expected to be performed.
type Frequency string

const (
	AppName            = "habits"
	DefaultKeyringUser = "database-connection"
	JWTKeyringUser     = "jwt-secret"
	DefaultConfigDir   = "~/.config/habits"
	DefaultConfigFile  = "config.yaml"
	DefaultDBFile      = "habits.db"
	Version            = "v0.3.0"

	// KeyringDSN as database DSN reads the connection string from the OS keyring.
	KeyringDSN = "keyring"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habits-"
	BackupFileSuffix = ".db"

	// Frequency constants
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"

	// Progression constants
	MaxLevel = 50
	BaseXP   = 100
	XPGrowth = 1.15

	XPDaily   = 10
	XPWeekly  = 25
	XPMonthly = 50

	// Habit defaults and field limits
	DefaultHabitEmoji  = "📌"
	DefaultHabitColor  = "purple"
	MaxHabitNameLen    = 100
	MaxDescriptionLen  = 500
	MaxMoodNotesLen    = 500
	MinUserNameLen     = 2
	MinPasswordLen     = 8
	BcryptCost         = 12
	MaxWeeklyGoal      = 7
	MaxMonthlyGoal     = 31
	XPUpdateMaxRetries = 3

	// Server defaults
	DefaultAddr            = "127.0.0.1:8080"
	DefaultTokenTTL        = 7 * 24 * time.Hour
	DefaultRateLimitRPS    = 10
	DefaultRateLimitBurst  = 20
	DefaultShutdownTimeout = 10 * time.Second
	DefaultStatsCacheTTL   = 5 * time.Minute
	DefaultTimezone        = "Local"
)

// Categories lists the habit categories accepted on create and edit.
var Categories = []string{
	"Santé",
	"Productivité",
	"Sport",
	"Créativité",
	"Social",
	"Apprentissage",
	"Autre",
}

// Colors lists the accent colors a habit can use.
var Colors = []string{"purple", "blue", "green", "orange", "pink", "teal"}
