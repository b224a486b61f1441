// Package storagetest provides a migrated throwaway SQLite store for tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/lifequest/internal/storage/sqlite"
	"github.com/julianstephens/lifequest/internal/storage/sqlstore"
)

// New returns a fresh store in t.TempDir, closed when the test ends.
func New(t testing.TB) *sqlstore.Store {
	t.Helper()

	store, err := sqlite.Init(context.Background(), filepath.Join(t.TempDir(), "lifequest.db"))
	if err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
