package constants

import "time"

const (
	AppName            = "gratilog"
	DefaultKeyringUser = "gemini-api-key"
	DefaultConfigPath  = "~/.config/gratilog/gratilog.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MemoryStorePath selects the in-memory store
	MemoryStorePath = ":memory:"

	// MaxCASRetries bounds read-modify-write retries on a version conflict
	MaxCASRetries = 5

	// Mood scale
	MoodMin = 1
	MoodMax = 10

	// Badge thresholds
	FirstStepEntries = 1
	StreakShort      = 3
	StreakLong       = 7
	MoodMasterLogs   = 10

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "gratilog-"
	BackupFileSuffix = ".db"

	// Coach constants
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	CoachTimeout         = 60 * time.Second
	RecentMoodDays       = 7
)
