package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/config"
	"github.com/julianstephens/lifequest/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath, err := ctx.SQLitePath()
		if err != nil {
			return fmt.Errorf("--force: %w", err)
		}
		if err := ctx.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if _, err := os.Stat(dbPath); err == nil {
			for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	store, err := ctx.Init()
	if err != nil {
		return err
	}
	fmt.Printf("✓ Initialized lifequest storage at: %s\n", store.Location())

	if ctx.ConfigPath == "" {
		return nil
	}
	path, err := sqlite.ExpandPath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to access config file: %w", err)
	}
	if err := config.Write(path, ctx.Config); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote default configuration to: %s\n", path)
	return nil
}
