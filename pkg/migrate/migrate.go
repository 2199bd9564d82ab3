// Package migrate applies the goose SQL migrations under migrations/.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where the goose SQL files live relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

// Migrations use Postgres enum types and partial indexes.
const dialect = "postgres"

// Migrator runs goose against one database and migrations directory.
type Migrator struct {
	db  *sql.DB
	dir string
}

func NewMigrator(db *sql.DB, dir string) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: db, dir: dir}, nil
}

// Apply runs a goose command such as up, down, redo or status. Status output
// goes to stdout through goose.
func (m *Migrator) Apply(ctx context.Context, command string, args ...string) error {
	if err := goose.RunContext(ctx, command, m.db, m.dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// ToVersion moves the schema up or down until target is the current version.
func (m *Migrator) ToVersion(ctx context.Context, target int64) error {
	current, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case current < target:
		if err := goose.UpToContext(ctx, m.db, m.dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	case current > target:
		if err := goose.DownToContext(ctx, m.db, m.dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}

// ParseVersion reads a YYYYMMDDHHMMSS migration version.
func ParseVersion(raw string) (int64, error) {
	if len(raw) != len(versionLayout) {
		return 0, fmt.Errorf("invalid version %q (want YYYYMMDDHHMMSS)", raw)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("invalid version %q (want YYYYMMDDHHMMSS)", raw)
	}
	return version, nil
}
