// Package sqlite opens the local SQLite backend.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/lifequest/internal/migration"
	"github.com/julianstephens/lifequest/internal/storage/sqlstore"
	"github.com/julianstephens/lifequest/migrations"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// Init creates the database file if needed and applies pending migrations.
func Init(ctx context.Context, path string) (*sqlstore.Store, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := open(ctx, path)
	if err != nil {
		return nil, err
	}

	runner, err := newRunner(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := runner.Apply(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return sqlstore.New(db, sqlstore.SQLite, path), nil
}

// Load opens an existing, initialized database and checks its schema version.
func Load(ctx context.Context, path string) (*sqlstore.Store, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("storage not initialized, run 'lifequest init' first")
	}

	db, err := open(ctx, path)
	if err != nil {
		return nil, err
	}

	runner, err := newRunner(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	st, err := runner.Status(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if st.Current > st.Latest {
		db.Close()
		return nil, runner.Validate(ctx)
	}
	if len(st.Pending) > 0 {
		db.Close()
		return nil, fmt.Errorf("database schema is at version %d but %d is required, run 'lifequest migrate'", st.Current, st.Latest)
	}

	return sqlstore.New(db, sqlstore.SQLite, path), nil
}

// Migrate applies pending migrations to an existing database.
func Migrate(ctx context.Context, path string) (int, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return 0, err
	}
	db, err := open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	runner, err := newRunner(db)
	if err != nil {
		return 0, err
	}
	return runner.Apply(ctx)
}

// Status reports the schema version of an existing database without
// migrating it.
func Status(ctx context.Context, path string) (migration.Status, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return migration.Status{}, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return migration.Status{}, fmt.Errorf("storage not initialized, run 'lifequest init' first")
	}
	db, err := open(ctx, path)
	if err != nil {
		return migration.Status{}, err
	}
	defer db.Close()

	runner, err := newRunner(db)
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status(ctx)
}

func open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: writers serialize and Atomic units never interleave.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}
	return db, nil
}

func newRunner(db *sqlx.DB) (*migration.Runner, error) {
	sub, err := migrations.Sub("sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, sub), nil
}
