package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifequest/internal/backup"
	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/models"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is not reachable
	needsDB bool
	// warnOnly failures do not fail the run
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Configuration", run: checkConfig},
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Ledger balances", needsDB: true, run: checkLedgerBalances},
	{name: "Schedule conflicts", needsDB: true, warnOnly: true, run: checkScheduleConflicts},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
			if c.name == "Database reachable" {
				dbReachable = true
			}
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *cli.Context) error {
	return ctx.Config.Validate()
}

func checkDBReachable(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if err := a.Store.Ping(ctx.Context()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	st, err := ctx.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	st, err := ctx.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

// checkLedgerBalances compares each account balance with the running balance
// of its newest entry.
func checkLedgerBalances(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	for _, currency := range []models.Currency{models.CurrencyPoints, models.CurrencyCoins} {
		acct := a.Account(currency)
		balance, err := acct.CurrentBalance(ctx.Context())
		if err != nil {
			return fmt.Errorf("failed to read %s balance: %w", currency, err)
		}
		latest, err := acct.History(ctx.Context(), "", "", 1)
		if err != nil {
			return fmt.Errorf("failed to read %s history: %w", currency, err)
		}
		var tail int64
		if len(latest) > 0 {
			tail = latest[0].BalanceAfter
		}
		if balance != tail {
			return fmt.Errorf("%s balance is %d but the newest entry records %d", currency, balance, tail)
		}
	}
	return nil
}

func checkScheduleConflicts(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	result, err := a.Schedules.Conflicts(ctx.Context(), "")
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) today, run 'lifequest schedules conflicts' for details", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	dbPath, err := ctx.SQLitePath()
	if err != nil {
		return fmt.Errorf("backups are only managed for SQLite storage")
	}
	mgr := backup.NewManager(dbPath)
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s, run 'lifequest backup create'", mgr.Dir())
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	loc, err := ctx.Config.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}
	now := time.Now().In(loc)
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
