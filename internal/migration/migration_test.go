package migration

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/lifequest/migrations"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyRunsPendingInOrder(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	fsys := fstest.MapFS{
		"002_add_col.sql": {Data: []byte("ALTER TABLE widgets ADD COLUMN size INTEGER;")},
		"001_init.sql":    {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"README.md":       {Data: []byte("ignored")},
	}
	runner := NewRunner(db, fsys)

	applied, err := runner.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("Apply() applied = %d, want 2", applied)
	}

	version, err := runner.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion() error = %v", err)
	}
	if version != 2 {
		t.Errorf("CurrentVersion() = %d, want 2", version)
	}

	applied, err = runner.Apply(ctx)
	if err != nil || applied != 0 {
		t.Errorf("second Apply() = %d, %v; want 0, nil", applied, err)
	}
}

func TestMigrationsRejectsBadFilenames(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name:  "missing underscore",
			files: fstest.MapFS{"001init.sql": {Data: []byte("SELECT 1;")}},
			want:  "invalid migration filename",
		},
		{
			name:  "non numeric",
			files: fstest.MapFS{"abc_init.sql": {Data: []byte("SELECT 1;")}},
			want:  "invalid version number",
		},
		{
			name: "duplicate",
			files: fstest.MapFS{
				"001_a.sql":  {Data: []byte("SELECT 1;")},
				"0001_b.sql": {Data: []byte("SELECT 1;")},
			},
			want: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(setupTestDB(t), tt.files).Migrations()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Migrations() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestValidateNewerSchema(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	runner := NewRunner(db, fstest.MapFS{"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")}})
	if _, err := runner.Apply(ctx); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("bump version: %v", err)
	}

	if err := runner.Validate(ctx); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("Validate() error = %v, want newer schema error", err)
	}
}

func TestEmbeddedSQLiteMigrationsApply(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	sub, err := migrations.Sub("sqlite")
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if _, err := NewRunner(db, sub).Apply(ctx); err != nil {
		t.Fatalf("Apply() embedded migrations error = %v", err)
	}

	var accounts int
	if err := db.Get(&accounts, "SELECT COUNT(*) FROM ledger_accounts"); err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	if accounts != 2 {
		t.Errorf("ledger_accounts rows = %d, want 2", accounts)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_version").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_version").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	runner := NewRunner(db, fstest.MapFS{"001_broken.sql": {Data: []byte("CREATE TABLE broken (")}})
	applied, err := runner.Apply(context.Background())
	if err == nil {
		t.Fatal("Apply() expected error")
	}
	if applied != 0 {
		t.Errorf("Apply() applied = %d, want 0", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
