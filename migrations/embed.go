package migrations

import (
	"embed"
	"io/fs"
)

// FS holds the SQL migrations for every supported backend, one directory per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Sub returns the migrations for a single dialect ("sqlite" or "postgres").
func Sub(dialect string) (fs.FS, error) {
	return fs.Sub(FS, dialect)
}
