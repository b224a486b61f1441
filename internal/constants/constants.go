package constants

const (
	AppName            = "lifequest"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/lifequest"
	DefaultDBPath      = "~/.config/lifequest/lifequest.db"
	DefaultConfigFile  = "~/.config/lifequest/config.toml"
	Version            = "v0.3.0"

	// EnvPrefix is prepended to every environment override (LIFEQUEST_DB, ...)
	EnvPrefix = "LIFEQUEST_"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is how timestamps are persisted. It is fixed width and
	// always UTC so lexical order matches chronological order.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lifequest-"
	BackupFileSuffix = ".db"

	// Free slot defaults
	DefaultWindowStart = "06:00"
	DefaultWindowEnd   = "23:00"
	DefaultMinDuration = 30
	DefaultMaxFatigue  = 10
	MaxFatigueCeiling  = 10

	// Recommendation defaults
	DefaultEnergy        = 50
	DefaultFatigue       = 50
	DefaultStudyLimit    = 5
	DefaultMealHistDays  = 7
	DefaultStudyHistDays = 30

	// Ledger defaults
	DefaultHistoryLimit  = 100
	DefaultStatsWindow   = 30
	TopCategoryCount     = 5
	DefaultExchangeRate  = 1.0
	DefaultExchangeLimit = 50
	DefaultTaskHistLimit = 50

	// Reminder defaults
	DefaultSleepTime         = "23:00"
	DefaultReminderLeadHours = 10
	DefaultReminderHours     = 24
	DeadlineReminderOffset   = 30 // minutes before a deadline

	// Server defaults
	DefaultServerAddr      = "127.0.0.1:8080"
	DefaultRateLimit       = 20
	DefaultRateBurst       = 40
	DefaultRequestTimeout  = 30 // seconds
	DefaultShutdownTimeout = 10 // seconds
	DefaultDailyResetCron  = "0 0 * * *"
)
