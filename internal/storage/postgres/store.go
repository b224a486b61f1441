// Package postgres opens the PostgreSQL backend. Tables live in a dedicated
// schema named after the application, selected through search_path.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/lib/pq"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/migration"
	"github.com/julianstephens/lifequest/internal/storage/sqlstore"
	"github.com/julianstephens/lifequest/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// IsConnString reports whether s looks like a PostgreSQL URI or DSN rather than a file path.
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") || strings.Contains(s, "host=")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// WithSearchPath adds search_path=<app> unless the string already sets one.
func WithSearchPath(connStr string) string {
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if !hasParam(connStr, "search_path") {
		return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
	}
	return connStr
}

// hasParam reports whether a DSN or URL carries key (case-insensitive).
func hasParam(connStr, key string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// ValidateConnString checks that connStr parses as a PostgreSQL URI or DSN
// and carries no password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(pair, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

// Redact returns a loggable identifier for connStr.
func Redact(connStr string) string {
	if isURL(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			return fmt.Sprintf("postgresql://%s%s", u.Host, u.Path)
		}
	}
	return "postgresql"
}

// Init connects, creates the schema and applies pending migrations.
func Init(ctx context.Context, connStr string) (*sqlstore.Store, error) {
	db, err := connect(ctx, connStr)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
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
	return sqlstore.New(db, sqlstore.Postgres, Redact(connStr)), nil
}

// Load connects to an initialized database and validates its schema version.
func Load(ctx context.Context, connStr string) (*sqlstore.Store, error) {
	db, err := connect(ctx, connStr)
	if err != nil {
		return nil, err
	}
	runner, err := newRunner(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := runner.Validate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return sqlstore.New(db, sqlstore.Postgres, Redact(connStr)), nil
}

// Migrate applies pending migrations.
func Migrate(ctx context.Context, connStr string) (int, error) {
	db, err := connect(ctx, connStr)
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

// Status reports the schema version without migrating.
func Status(ctx context.Context, connStr string) (migration.Status, error) {
	db, err := connect(ctx, connStr)
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

func connect(ctx context.Context, connStr string) (*sqlx.DB, error) {
	connStr = WithSearchPath(connStr)

	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(connStr, "sslmode") {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func newRunner(db *sqlx.DB) (*migration.Runner, error) {
	sub, err := migrations.Sub("postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(db, sub), nil
}
