// Package config loads lifequest settings from a TOML file, an optional .env
// file and LIFEQUEST_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/storage/postgres"
	"github.com/julianstephens/lifequest/internal/storage/sqlite"
	"github.com/julianstephens/lifequest/internal/utils"
)

// KeyringTarget as the database path means the PostgreSQL connection string
// lives in the OS keyring.
const KeyringTarget = "keyring"

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Exchange  ExchangeConfig  `toml:"exchange"`
	Reminders RemindersConfig `toml:"reminders"`
	Jobs      JobsConfig      `toml:"jobs"`
}

type DatabaseConfig struct {
	// Path is a SQLite file, a PostgreSQL connection string without a
	// password, or "keyring".
	Path           string `toml:"path"`
	KeyringProfile string `toml:"keyring_profile"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`
	RateLimit       float64       `toml:"rate_limit"` // requests per second per client
	RateBurst       int           `toml:"rate_burst"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
	JSON  bool   `toml:"json"`
}

type ScheduleConfig struct {
	Timezone    string `toml:"timezone"`
	WindowStart string `toml:"window_start"`
	WindowEnd   string `toml:"window_end"`
	MinDuration int    `toml:"min_duration"`
	MaxFatigue  int    `toml:"max_fatigue"`
}

type ExchangeConfig struct {
	// CreditPoints also credits the points ledger on coin exchanges.
	CreditPoints bool    `toml:"credit_points"`
	DefaultRate  float64 `toml:"default_rate"`
}

type RemindersConfig struct {
	SleepTime string `toml:"sleep_time"`
	LeadHours int    `toml:"lead_hours"`
}

type JobsConfig struct {
	DailyReset     bool   `toml:"daily_reset"`
	DailyResetCron string `toml:"daily_reset_cron"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: constants.DefaultDBPath},
		Server: ServerConfig{
			Addr:            constants.DefaultServerAddr,
			RateLimit:       constants.DefaultRateLimit,
			RateBurst:       constants.DefaultRateBurst,
			RequestTimeout:  constants.DefaultRequestTimeout * time.Second,
			ShutdownTimeout: constants.DefaultShutdownTimeout * time.Second,
		},
		Log: LogConfig{Level: "info", Dir: filepath.Join(constants.DefaultConfigDir, "logs")},
		Schedule: ScheduleConfig{
			Timezone:    "Local",
			WindowStart: constants.DefaultWindowStart,
			WindowEnd:   constants.DefaultWindowEnd,
			MinDuration: constants.DefaultMinDuration,
			MaxFatigue:  constants.DefaultMaxFatigue,
		},
		Exchange:  ExchangeConfig{DefaultRate: constants.DefaultExchangeRate},
		Reminders: RemindersConfig{SleepTime: constants.DefaultSleepTime, LeadHours: constants.DefaultReminderLeadHours},
		Jobs:      JobsConfig{DailyReset: true, DailyResetCron: constants.DefaultDailyResetCron},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is only an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	expanded, err := sqlite.ExpandPath(path)
	if err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(expanded, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || required {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadEnvFile loads KEY=value pairs from a .env file into the environment.
// Variables already set win. A missing file is ignored.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from LIFEQUEST_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(constants.EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	str("DB", &c.Database.Path)
	str("KEYRING_PROFILE", &c.Database.KeyringProfile)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_DIR", &c.Log.Dir)
	str("TIMEZONE", &c.Schedule.Timezone)
	str("SLEEP_TIME", &c.Reminders.SleepTime)
	str("DAILY_RESET_CRON", &c.Jobs.DailyResetCron)

	if v := getenv(constants.EnvPrefix + "RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT %q: %w", constants.EnvPrefix, v, err)
		}
		c.Server.RateLimit = f
	}
	if v := getenv(constants.EnvPrefix + "EXCHANGE_CREDIT_POINTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sEXCHANGE_CREDIT_POINTS %q: %w", constants.EnvPrefix, v, err)
		}
		c.Exchange.CreditPoints = b
	}
	if v := getenv(constants.EnvPrefix + "LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sLOG_JSON %q: %w", constants.EnvPrefix, v, err)
		}
		c.Log.JSON = b
	}
	return nil
}

func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		add("database.path is required")
	} else if postgres.IsConnString(c.Database.Path) {
		if err := postgres.ValidateConnString(c.Database.Path); err != nil {
			add("database.path: %v", err)
		}
	}
	if c.Server.Addr == "" {
		add("server.addr is required")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		add("server.rate_limit and server.rate_burst must be non-negative")
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		add("server timeouts must be non-negative")
	}
	if !utils.ValidateTimezone(c.Schedule.Timezone) {
		add("schedule.timezone %q is not a known zone", c.Schedule.Timezone)
	}
	if !utils.ValidateTimeFormat(c.Schedule.WindowStart) || !utils.ValidateTimeFormat(c.Schedule.WindowEnd) {
		add("schedule window must be HH:MM")
	} else if c.Schedule.WindowStart >= c.Schedule.WindowEnd {
		add("schedule.window_end must be after schedule.window_start")
	}
	if c.Schedule.MinDuration < 0 {
		add("schedule.min_duration must be non-negative")
	}
	if c.Schedule.MaxFatigue < 0 || c.Schedule.MaxFatigue > constants.MaxFatigueCeiling {
		add("schedule.max_fatigue must be between 0 and %d", constants.MaxFatigueCeiling)
	}
	if c.Exchange.DefaultRate <= 0 {
		add("exchange.default_rate must be positive")
	}
	if !utils.ValidateTimeFormat(c.Reminders.SleepTime) {
		add("reminders.sleep_time must be HH:MM")
	}
	if c.Reminders.LeadHours < 0 {
		add("reminders.lead_hours must be non-negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves the schedule timezone.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Schedule.Timezone)
}

// CredentialSource yields a stored PostgreSQL connection string.
type CredentialSource interface {
	ConnectionString() (string, error)
}

// DatabaseTarget returns the SQLite path or PostgreSQL connection string to
// open, consulting creds when the path is "keyring".
func (c Config) DatabaseTarget(creds CredentialSource) (string, error) {
	if c.Database.Path != KeyringTarget {
		return c.Database.Path, nil
	}
	connStr, err := creds.ConnectionString()
	if err != nil {
		return "", fmt.Errorf("failed to read connection string from keyring: %w", err)
	}
	if !postgres.IsConnString(connStr) {
		return "", fmt.Errorf("keyring entry is not a PostgreSQL connection string")
	}
	return connStr, nil
}

// Write encodes c as TOML at path, creating parent directories.
func Write(path string, c Config) error {
	expanded, err := sqlite.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
