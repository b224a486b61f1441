// Package clitest builds command contexts backed by a throwaway SQLite file.
package clitest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/config"
)

// Now is the fixed clock every context returned by New uses.
var Now = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

// New returns a context for a database file in t.TempDir that has not been
// created yet, and the path to that file.
func New(t testing.TB) (*cli.Context, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "lifequest.db")

	cfg := config.Default()
	cfg.Database.Path = dbPath
	cfg.Schedule.Timezone = "UTC"

	ctx := cli.NewContext(context.Background(), cfg)
	ctx.ConfigPath = filepath.Join(dir, "config.toml")
	ctx.Now = func() time.Time { return Now }
	t.Cleanup(func() { ctx.Close() })
	return ctx, dbPath
}

// Initialized is New followed by a successful Init.
func Initialized(t testing.TB) *cli.Context {
	t.Helper()
	ctx, _ := New(t)
	if _, err := ctx.Init(); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	return ctx
}
