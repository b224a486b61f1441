package backups

import (
	"testing"

	"github.com/julianstephens/lifequest/internal/backup"
	"github.com/julianstephens/lifequest/internal/cli/clitest"
	"github.com/julianstephens/lifequest/internal/models"
)

func TestBackupCreateListRestore(t *testing.T) {
	ctx := clitest.Initialized(t)
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	if _, err := a.Points.Record(ctx.Context(), 50, models.KindEarned, models.CategoryOther, "before backup"); err != nil {
		t.Fatalf("failed to record points: %v", err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	dbPath, err := ctx.SQLitePath()
	if err != nil {
		t.Fatalf("SQLitePath() error = %v", err)
	}
	infos, err := backup.NewManager(dbPath).List()
	if err != nil || len(infos) != 1 {
		t.Fatalf("backups = %v, %v; want one", infos, err)
	}
	if want := "lifequest-20240506-090000.db"; infos[0].Name != want {
		t.Errorf("backup name = %q, want %q", infos[0].Name, want)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list failed: %v", err)
	}

	a, err = ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	if _, err := a.Points.Record(ctx.Context(), 25, models.KindEarned, models.CategoryOther, "after backup"); err != nil {
		t.Fatalf("failed to record points: %v", err)
	}

	if err := (&BackupRestoreCmd{Name: infos[0].Name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	a, err = ctx.App()
	if err != nil {
		t.Fatalf("failed to reopen app: %v", err)
	}
	balance, err := a.Points.CurrentBalance(ctx.Context())
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	if balance != 50 {
		t.Errorf("balance after restore = %d, want 50", balance)
	}
}

func TestBackupRestoreUnknownName(t *testing.T) {
	ctx := clitest.Initialized(t)
	err := (&BackupRestoreCmd{Name: "lifequest-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil {
		t.Error("expected an unknown backup to fail")
	}
}

func TestBackupRejectsPostgres(t *testing.T) {
	ctx, _ := clitest.New(t)
	ctx.Config.Database.Path = "postgres://user@localhost:5432/lifequest"
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected backups to be refused for PostgreSQL")
	}
}

func TestBackupListEmpty(t *testing.T) {
	ctx, _ := clitest.New(t)
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list without backups failed: %v", err)
	}
}
