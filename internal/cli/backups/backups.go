// Package backups holds the SQLite backup commands.
package backups

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/lifequest/internal/backup"
	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/constants"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" default:"1" help:"Snapshot the database now."`
	List    BackupListCmd    `cmd:"" help:"List available backups, newest first."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a backup."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	path, err := ctx.SQLitePath()
	if err != nil {
		return nil, err
	}
	m := backup.NewManager(path)
	if ctx.Now != nil {
		m.WithClock(ctx.Now)
	}
	return m, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	m, err := manager(ctx)
	if err != nil {
		return err
	}
	info, err := m.Create(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Backup created: %s (%s)\n", info.Path, humanize.Bytes(uint64(info.Size)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	m, err := manager(ctx)
	if err != nil {
		return err
	}
	infos, err := m.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", m.Dir())
		return nil
	}

	cli.Header("Backups in %s", m.Dir())
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			ctx.FormatTime(info.Timestamp),
			humanize.Time(info.Timestamp),
			humanize.Bytes(uint64(info.Size)),
		})
	}
	cli.PrintTable([]string{"Name", "Created", "Age", "Size"}, rows)
	fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("Keeping the newest %d backups.", constants.MaxBackups)))
	return nil
}

type BackupRestoreCmd struct {
	Name string `arg:"" help:"Backup file name or path."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	m, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := m.Resolve(c.Name)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(
		"Restore "+path+"?",
		"The current database is backed up first, then replaced.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := ctx.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	safety, err := m.Restore(ctx.Context(), path)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Restored database from %s\n", path)
	if safety.Path != "" {
		fmt.Printf("  Previous database saved to: %s\n", safety.Path)
	}
	return nil
}
