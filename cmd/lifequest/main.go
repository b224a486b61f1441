package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/cli/backups"
	"github.com/julianstephens/lifequest/internal/cli/ledgers"
	"github.com/julianstephens/lifequest/internal/cli/meals"
	"github.com/julianstephens/lifequest/internal/cli/schedules"
	"github.com/julianstephens/lifequest/internal/cli/shops"
	"github.com/julianstephens/lifequest/internal/cli/studies"
	"github.com/julianstephens/lifequest/internal/cli/system"
	"github.com/julianstephens/lifequest/internal/cli/tasks"
	"github.com/julianstephens/lifequest/internal/config"
	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_file}"`
	DB      string `name:"db" help:"SQLite path, PostgreSQL connection string, or 'keyring'. Overrides database.path. For PostgreSQL, credentials must NOT be embedded in the connection string."`
	EnvFile string `name:"env-file" help:"Load LIFEQUEST_* variables from this .env file." default:".env"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize lifequest storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the HTTP API."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the dashboard TUI." default:"1"`

	Points   ledgers.Commands[ledgers.Points] `cmd:"" help:"Manage the points ledger."`
	Coins    ledgers.Commands[ledgers.Coins]  `cmd:"" help:"Manage the coins ledger."`
	Exchange ledgers.ExchangeCmd              `cmd:"" help:"Convert coins into points."`
	Goals    ledgers.GoalsCmd                 `cmd:"" help:"Manage savings goals."`
	Shop     shops.Commands[shops.Shop]       `cmd:"" help:"Spend coins in the shop."`
	Rewards  shops.Commands[shops.Rewards]    `cmd:"" help:"Redeem points for rewards."`

	Tasks     tasks.TasksCmd         `cmd:"" help:"Manage tasks."`
	Schedules schedules.SchedulesCmd `cmd:"" help:"Manage the calendar and find free time."`
	Study     studies.StudyCmd       `cmd:"" help:"Track study items and the class timetable."`
	Meals     meals.MealsCmd         `cmd:"" help:"Track meals and get recommendations."`

	Backup  backups.BackupCmd `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report whether a keyring is available." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Gamified productivity: points, coins, tasks, schedules, study and meals"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	if err := config.LoadEnvFile(CLI.EnvFile); err != nil {
		apperrors.Fatal(err)
	}
	// An explicit --config must exist, the default location may not.
	explicit := CLI.Config != constants.DefaultConfigFile
	cfg, err := config.Load(CLI.Config, explicit)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Database.Path = CLI.DB
		if err := cfg.Validate(); err != nil {
			apperrors.Fatal(err)
		}
	}

	logDir, err := sqlite.ExpandPath(cfg.Log.Dir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:  CLI.Debug,
		Level:  cfg.Log.Level,
		Dir:    logDir,
		JSON:   cfg.Log.JSON,
		Stderr: kctx.Command() == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting command", "command", kctx.Command(), "config", CLI.Config)

	appCtx := cli.NewContext(context.Background(), cfg)
	appCtx.ConfigPath = CLI.Config

	err = kctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil && err == nil {
		err = cerr
	}
	apperrors.Fatal(err)
}
