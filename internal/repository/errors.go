// Package repository holds the SQL data access layer.  Every repo is bound
// to a dbx.DBTX so the same code runs on a plain connection pool or inside
// a transaction, and every query is written with `?` placeholders that the
// Manager rebinds for the connected dialect.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup by key matches no row.  It
// replaces sql.ErrNoRows at the repository boundary so callers do not
// depend on database/sql.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would give two
// accounts the same email address.  Handlers translate it into 409.
var ErrEmailExists = errors.New("email already exists")

// notFound maps sql.ErrNoRows to ErrNotFound and passes everything else
// through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a unique-constraint failure on
// any supported driver.  When hints are given, the driver message must
// also mention one of them (typically the column or index name).
func isUniqueViolation(err error, hints ...string) bool {
	if err == nil {
		return false
	}
	unique := false
	var myErr *mysql.MySQLError
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &myErr):
		unique = myErr.Number == 1062
	case errors.As(err, &pgErr):
		unique = pgErr.Code == "23505"
	default:
		unique = strings.Contains(err.Error(), "UNIQUE constraint failed")
	}
	if !unique || len(hints) == 0 {
		return unique
	}
	msg := err.Error()
	for _, h := range hints {
		if strings.Contains(msg, h) {
			return true
		}
	}
	return false
}
