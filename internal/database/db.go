package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/pwarnimont/filmdb2/internal/config"
	"github.com/pwarnimont/filmdb2/internal/dbx"
)

// driverNames maps a dialect to the database/sql driver registered for it.
var driverNames = map[dbx.Dialect]string{
	dbx.MySQL:    "mysql",
	dbx.Postgres: "pgx",
	dbx.SQLite:   "sqlite",
}

// Open connects to the configured database, applies pool settings and
// verifies the connection.  It returns the dialect so repositories can
// bind their queries.
func Open(ctx context.Context, c config.DBConfig) (*sql.DB, dbx.Dialect, error) {
	dialect, err := dbx.ParseDialect(c.Driver)
	if err != nil {
		return nil, "", err
	}
	dsn := c.DSN
	if dsn == "" {
		dsn = DSN(dialect, c)
	}

	db, err := sql.Open(driverNames[dialect], dsn)
	if err != nil {
		return nil, "", err
	}

	// Pool settings.  SQLite allows one writer at a time, so a single
	// connection avoids "database is locked" during imports.
	if dialect == dbx.SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// DSN builds a connection string from the discrete settings.
func DSN(d dbx.Dialect, c config.DBConfig) string {
	switch d {
	case dbx.Postgres:
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(c.Host, c.Port),
			Path:     "/" + c.Name,
			RawQuery: "sslmode=disable",
		}
		if c.Pass != "" {
			u.User = url.UserPassword(c.User, c.Pass)
		} else {
			u.User = url.User(c.User)
		}
		return u.String()
	case dbx.SQLite:
		return "file:" + c.Name + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	default:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Pass
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, c.Port)
		mc.DBName = c.Name
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	}
}
