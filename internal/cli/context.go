// Package cli holds the state shared by every lifequest subcommand.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/lifequest/internal/app"
	"github.com/julianstephens/lifequest/internal/config"
	"github.com/julianstephens/lifequest/internal/keyring"
	"github.com/julianstephens/lifequest/internal/migration"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/storage/postgres"
	"github.com/julianstephens/lifequest/internal/storage/sqlite"
)

// Context is bound into every command's Run method. The store is opened
// lazily so commands like init and keyring never touch the database.
type Context struct {
	Config     config.Config
	ConfigPath string
	// Credentials resolves "keyring" database targets. Nil uses the OS
	// keyring with the configured profile.
	Credentials config.CredentialSource
	// Now is the clock handed to the services. Nil uses the wall clock.
	Now func() time.Time

	base  context.Context
	store storage.Store
	app   *app.App
}

// NewContext returns a Context for cfg whose blocking work is bound to base.
func NewContext(base context.Context, cfg config.Config) *Context {
	return &Context{Config: cfg, base: base}
}

// Context returns the context commands should pass to blocking calls.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

func (c *Context) credentials() config.CredentialSource {
	if c.Credentials != nil {
		return c.Credentials
	}
	return keyring.New(c.Config.Database.KeyringProfile)
}

// Target is the SQLite path or PostgreSQL connection string to open.
func (c *Context) Target() (string, error) {
	return c.Config.DatabaseTarget(c.credentials())
}

// IsPostgres reports whether the configured target is a PostgreSQL database.
func (c *Context) IsPostgres() (bool, error) {
	target, err := c.Target()
	if err != nil {
		return false, err
	}
	return postgres.IsConnString(target), nil
}

// SQLitePath returns the expanded database file path. It fails for
// PostgreSQL targets.
func (c *Context) SQLitePath() (string, error) {
	target, err := c.Target()
	if err != nil {
		return "", err
	}
	if postgres.IsConnString(target) {
		return "", fmt.Errorf("this command only supports SQLite storage")
	}
	return sqlite.ExpandPath(target)
}

// App opens the store on first use and returns the wired services.
func (c *Context) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	target, err := c.Target()
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if postgres.IsConnString(target) {
		store, err = postgres.Load(c.Context(), target)
	} else {
		store, err = sqlite.Load(c.Context(), target)
	}
	if err != nil {
		return nil, err
	}
	return c.use(store)
}

// Init creates the storage if needed, migrates it and keeps it open.
func (c *Context) Init() (storage.Store, error) {
	if err := c.Close(); err != nil {
		return nil, err
	}
	target, err := c.Target()
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if postgres.IsConnString(target) {
		store, err = postgres.Init(c.Context(), target)
	} else {
		store, err = sqlite.Init(c.Context(), target)
	}
	if err != nil {
		return nil, err
	}
	if _, err := c.use(store); err != nil {
		return nil, err
	}
	return store, nil
}

// Migrate applies pending migrations and returns how many ran.
func (c *Context) Migrate() (int, error) {
	target, err := c.Target()
	if err != nil {
		return 0, err
	}
	if postgres.IsConnString(target) {
		return postgres.Migrate(c.Context(), target)
	}
	return sqlite.Migrate(c.Context(), target)
}

// SchemaStatus reports the schema version without migrating.
func (c *Context) SchemaStatus() (migration.Status, error) {
	target, err := c.Target()
	if err != nil {
		return migration.Status{}, err
	}
	if postgres.IsConnString(target) {
		return postgres.Status(c.Context(), target)
	}
	return sqlite.Status(c.Context(), target)
}

func (c *Context) use(store storage.Store) (*app.App, error) {
	a, err := app.New(store, c.Config, c.Now)
	if err != nil {
		store.Close()
		return nil, err
	}
	c.store = store
	c.app = a
	return a, nil
}

// Close releases the store if one is open. It is safe to call repeatedly.
func (c *Context) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.app = nil
	return err
}

// Clock returns the current time in the configured location.
func (c *Context) Clock() time.Time {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	if loc, err := c.Config.Location(); err == nil {
		now = now.In(loc)
	}
	return now
}
