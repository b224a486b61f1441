// Package sqlstore implements storage.Store over database/sql using sqlx.
// Queries are written with ? placeholders and rebound for the active driver,
// so the SQLite and PostgreSQL backends share one implementation.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/utils"
)

// Dialect captures the few places the backends differ.
type Dialect struct {
	Name string
	// LockClause is appended to row reads that must block concurrent writers.
	LockClause string
}

var (
	SQLite   = Dialect{Name: "sqlite"}
	Postgres = Dialect{Name: "postgres", LockClause: " FOR UPDATE"}
)

// Store is the shared SQL implementation of storage.Store.
type Store struct {
	queries
	db       *sqlx.DB
	location string
}

var _ storage.Store = (*Store)(nil)

// New wraps an open, migrated handle.
func New(db *sqlx.DB, dialect Dialect, location string) *Store {
	return &Store{
		queries:  queries{ext: db, dialect: dialect},
		db:       db,
		location: location,
	}
}

// DB exposes the underlying handle for maintenance tasks.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Location() string { return s.location }

func (s *Store) Dialect() string { return s.dialect.Name }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Atomic runs fn inside one transaction.
func (s *Store) Atomic(ctx context.Context, fn func(q storage.Querier) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&queries{ext: tx, dialect: s.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Rollback failed", "error", rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// queries implements storage.Querier against either the pool or a transaction.
type queries struct {
	ext     sqlx.ExtContext
	dialect Dialect
}

func (q *queries) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *queries) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *queries) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return q.ext.ExecContext(ctx, q.ext.Rebind(query), args...)
}

// execOne runs a statement expected to touch exactly one row and maps zero
// affected rows to ErrNotFound.
func (q *queries) execOne(ctx context.Context, what, id, query string, args ...interface{}) error {
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to write %s %s: %w", what, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to write %s %s: %w", what, id, err)
	}
	if n == 0 {
		return apperrors.NotFoundf("%s %s", what, id)
	}
	return nil
}

// getOne is get with sql.ErrNoRows mapped to ErrNotFound.
func (q *queries) getOne(ctx context.Context, dest interface{}, what, id, query string, args ...interface{}) error {
	if err := q.get(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundf("%s %s", what, id)
		}
		return fmt.Errorf("failed to load %s %s: %w", what, id, err)
	}
	return nil
}

type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

func ts(t time.Time) string { return utils.FormatTimestamp(t) }

func nullTS(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: ts(*t), Valid: true}
}

func parseTS(s string) (time.Time, error) {
	t, err := utils.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTS(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTS(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func convertAll[R any, M any](rows []R, conv func(R) (M, error)) ([]M, error) {
	out := make([]M, 0, len(rows))
	for _, r := range rows {
		m, err := conv(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
