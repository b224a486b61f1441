package system

import (
	"fmt"

	"github.com/julianstephens/lifequest/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Show the schema version and pending migrations without applying them."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if c.Status {
		st, err := ctx.SchemaStatus()
		if err != nil {
			return fmt.Errorf("failed to read schema status: %w", err)
		}
		fmt.Printf("Current schema version: %d\n", st.Current)
		fmt.Printf("Latest schema version:  %d\n", st.Latest)
		if len(st.Pending) == 0 {
			fmt.Println("No pending migrations.")
			return nil
		}
		fmt.Printf("\nPending migrations (%d):\n", len(st.Pending))
		for _, m := range st.Pending {
			fmt.Printf("  %03d  %s\n", m.Version, m.Name)
		}
		return nil
	}

	// Migrations open their own connection.
	if err := ctx.Close(); err != nil {
		return err
	}
	count, err := ctx.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("Successfully applied %d migration(s).\n", count)
	}
	return nil
}
