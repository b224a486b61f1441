// Package backup snapshots and restores the SQLite database file.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/lifequest/internal/constants"
	"github.com/julianstephens/lifequest/internal/logger"
)

const stampFormat = "20060102-150405"

// Info describes one backup file.
type Info struct {
	Path      string
	Name      string
	Timestamp time.Time
	Size      int64
}

// Manager keeps rotating snapshots of one database in a sibling backups
// directory.
type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:   constants.MaxBackups,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to name backups.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithRetention keeps the n newest backups. n < 1 keeps everything.
func (m *Manager) WithRetention(n int) *Manager {
	m.keep = n
	return m
}

func (m *Manager) Dir() string { return m.dir }

// Create snapshots the database with VACUUM INTO and rotates old backups.
func (m *Manager) Create(ctx context.Context) (Info, error) {
	return m.create(ctx, true)
}

func (m *Manager) create(ctx context.Context, rotate bool) (Info, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return Info{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	at := m.now()
	path, err := m.nextName(at)
	if err != nil {
		return Info{}, err
	}
	if err := snapshot(ctx, m.dbPath, path); err != nil {
		os.Remove(path)
		return Info{}, err
	}

	if rotate {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate backups", "dir", m.dir, "error", err)
		}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Info("Created backup", "path", path, "bytes", fi.Size())
	return Info{Path: path, Name: filepath.Base(path), Timestamp: at.Truncate(time.Second), Size: fi.Size()}, nil
}

// nextName picks an unused file name for at, adding a counter on collision.
func (m *Manager) nextName(at time.Time) (string, error) {
	stamp := at.Format(stampFormat)
	for n := 0; n < 100; n++ {
		name := constants.BackupFilePrefix + stamp
		if n > 0 {
			name += "-" + strconv.Itoa(n)
		}
		path := filepath.Join(m.dir, name+constants.BackupFileSuffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to find a free backup name for %s", stamp)
}

func snapshot(ctx context.Context, src, dst string) error {
	db, err := sqlx.Open("sqlite", src)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := integrityCheck(ctx, db); err != nil {
		return fmt.Errorf("refusing to back up: %w", err)
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}
	return nil
}

func integrityCheck(ctx context.Context, db *sqlx.DB) error {
	var result string
	if err := db.GetContext(ctx, &result, "PRAGMA quick_check"); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// List returns the backups newest first. Files that do not follow the naming
// scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := parseName(e.Name())
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, e.Name()),
			Name:      e.Name(),
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}
	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp from lifequest-YYYYMMDD-HHMMSS[-N].db.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stamp) > len(stampFormat) {
		counter := stamp[len(stampFormat):]
		if counter[0] != '-' {
			return time.Time{}, false
		}
		if _, err := strconv.Atoi(counter[1:]); err != nil {
			return time.Time{}, false
		}
		stamp = stamp[:len(stampFormat)]
	}
	ts, err := time.ParseInLocation(stampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (m *Manager) rotate() error {
	if m.keep < 1 {
		return nil
	}
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, b := range backups[min(m.keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Name, err)
		}
		logger.Debug("Removed old backup", "path", b.Path)
	}
	return nil
}

// Resolve maps a bare backup file name to its path in the backup directory.
// Paths that exist as given are returned unchanged.
func (m *Manager) Resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if filepath.Base(name) == name {
		path := filepath.Join(m.dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("backup file not found: %s", name)
}

// Restore replaces the database with the backup at path. The current
// database is snapshotted first and the returned Info describes that
// snapshot (zero when there was no database). Callers must close every
// connection to the database before calling Restore.
func (m *Manager) Restore(ctx context.Context, path string) (Info, error) {
	if err := verify(ctx, path); err != nil {
		return Info{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety Info
	if _, err := os.Stat(m.dbPath); err == nil {
		safety, err = m.create(ctx, false)
		if err != nil {
			return Info{}, fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		os.Remove(tmp)
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	// Stale WAL frames would be replayed over the restored file.
	for _, sidecar := range []string{m.dbPath + "-wal", m.dbPath + "-shm"} {
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			os.Remove(tmp)
			return safety, fmt.Errorf("failed to remove %s: %w", filepath.Base(sidecar), err)
		}
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		os.Remove(tmp)
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Restored database", "from", path, "safety_backup", safety.Path)
	return safety, nil
}

func verify(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sqlx.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return integrityCheck(ctx, db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
