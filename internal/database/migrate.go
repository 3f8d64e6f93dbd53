package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/logging"
)

//go:embed migrations
var migrations embed.FS

// gooseDialects maps our dialects to goose's names and migration dirs.
var gooseDialects = map[dbx.Dialect]struct{ name, dir string }{
	dbx.MySQL:    {"mysql", "migrations/mysql"},
	dbx.Postgres: {"postgres", "migrations/postgres"},
	dbx.SQLite:   {"sqlite3", "migrations/sqlite"},
}

// Migrate applies every pending embedded migration for dialect d.
// goose keeps its settings in package globals, so concurrent calls
// are not safe.
func Migrate(ctx context.Context, db *sql.DB, d dbx.Dialect, log logging.Logger) error {
	g, ok := gooseDialects[d]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", d)
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})
	if err := goose.SetDialect(g.name); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, g.dir); err != nil {
		return fmt.Errorf("migrate %s: %w", d, err)
	}
	return nil
}

// MigrationVersion reports the currently applied schema version.
func MigrationVersion(ctx context.Context, db *sql.DB, d dbx.Dialect) (int64, error) {
	g, ok := gooseDialects[d]
	if !ok {
		return 0, fmt.Errorf("no migrations for dialect %q", d)
	}
	if err := goose.SetDialect(g.name); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

// gooseLogger routes goose's printf-style output into our logger.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(l.ctx, fmt.Sprintf(format, v...), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(l.ctx, fmt.Sprintf(format, v...), "component", "goose")
	panic(fmt.Sprintf(format, v...))
}
