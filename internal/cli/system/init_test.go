package system

import (
	"os"
	"strings"
	"testing"

	"github.com/julianstephens/lifequest/internal/cli/clitest"
	"github.com/julianstephens/lifequest/internal/config"
	"github.com/julianstephens/lifequest/internal/models"
)

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath := clitest.New(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if _, err := os.Stat(ctx.ConfigPath); err != nil {
		t.Errorf("config file was not written: %v", err)
	}

	cfg, err := config.Load(ctx.ConfigPath, true)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Database.Path != dbPath {
		t.Errorf("config database path = %q, want %q", cfg.Database.Path, dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := clitest.New(t)
	cmd := &InitCmd{}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	if _, err := a.Points.Record(ctx.Context(), 10, models.KindEarned, models.CategoryOther, "kept"); err != nil {
		t.Fatalf("failed to record points: %v", err)
	}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	a, err = ctx.App()
	if err != nil {
		t.Fatalf("failed to reopen app: %v", err)
	}
	balance, err := a.Points.CurrentBalance(ctx.Context())
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	if balance != 10 {
		t.Errorf("balance after re-init = %d, want 10", balance)
	}
}

func TestInitCmd_ForceResetsData(t *testing.T) {
	ctx := clitest.Initialized(t)
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	if _, err := a.Points.Record(ctx.Context(), 10, models.KindEarned, models.CategoryOther, "dropped"); err != nil {
		t.Fatalf("failed to record points: %v", err)
	}

	cmd := &InitCmd{Force: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}

	a, err = ctx.App()
	if err != nil {
		t.Fatalf("failed to reopen app: %v", err)
	}
	balance, err := a.Points.CurrentBalance(ctx.Context())
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance after forced init = %d, want 0", balance)
	}
}

func TestInitCmd_ForceRejectsPostgres(t *testing.T) {
	ctx, _ := clitest.New(t)
	ctx.Config.Database.Path = "postgres://user@localhost:5432/lifequest"

	err := (&InitCmd{Force: true}).Run(ctx)
	if err == nil {
		t.Fatal("expected --force to fail for PostgreSQL")
	}
	if !strings.Contains(err.Error(), "SQLite") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx := clitest.Initialized(t)

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := (&MigrateCmd{Status: true}).Run(ctx); err != nil {
		t.Fatalf("migrate --status failed: %v", err)
	}

	st, err := ctx.SchemaStatus()
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	if st.Current != st.Latest || len(st.Pending) != 0 {
		t.Errorf("status = %+v, want fully migrated", st)
	}
}

func TestMigrateCmd_StatusWithoutDatabase(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&MigrateCmd{Status: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing database")
	}
}
