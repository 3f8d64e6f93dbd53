package config // package config loads application configuration from environment variables

import (
	"errors"  // errors reports missing .env files distinctly
	"io/fs"   // fs.ErrNotExist identifies an absent .env file
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings normalises driver names
	"time"    // durations for lockout and import timeouts

	"github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// DBConfig describes how to reach the catalog database.  Driver is one of
// mysql, postgres or sqlite.  When DSN is set it is used verbatim and the
// discrete fields are ignored; for sqlite, Name is the database file path.
type DBConfig struct {
	Driver string // DB_DRIVER (default mysql)
	DSN    string // DB_DSN, full connection string (optional)
	User   string // DB_USER
	Pass   string // DB_PASS (empty allowed)
	Host   string // DB_HOST
	Port   string // DB_PORT
	Name   string // DB_NAME
}

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for costs and
// counts, durations for timeouts.
type Config struct {
	Env              string        // application environment (e.g. "development", "production")
	Port             string        // HTTP port to listen on
	DB               DBConfig      // catalog database settings
	JWTSecret        string        // secret used to sign JWTs
	AccessTTLMin     int           // access token time-to-live in minutes
	RefreshTTLDays   int           // refresh token time-to-live in days
	BcryptCost       int           // bcrypt cost for password hashing
	LoginMaxAttempts int           // failed logins before the account is locked
	LoginLockout     time.Duration // how long a locked account stays locked
	ImportBodyLimit  string        // max accepted backup payload, echo BodyLimit syntax (e.g. "32M")
	ImportTimeout    time.Duration // upper bound on a single import transaction
	AMQPURL          string        // RabbitMQ URL for backup events (empty disables publishing)
	AuditLogDir      string        // directory the audit consumer appends to
	LogLevel         string        // zap level: debug, info, warn, error
}

// LoadEnvFile loads variables from the given .env files (default ".env")
// without overriding values already present in the environment.  A missing
// file is not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	if err := LoadEnvFile(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	return Config{
		Env:              getenv("APP_ENV", "development"),          // environment (development/test/production)
		Port:             must("APP_PORT"),                          // port to bind the HTTP server
		DB:               LoadDB(),                                  // database connection settings
		JWTSecret:        must("JWT_SECRET"),                        // secret used for signing JWTs
		AccessTTLMin:     envInt("ACCESS_TOKEN_TTL_MIN", 15),        // TTL for access tokens in minutes
		RefreshTTLDays:   envInt("REFRESH_TOKEN_TTL_DAYS", 7),       // TTL for refresh tokens in days
		BcryptCost:       envInt("BCRYPT_COST", 12),                 // bcrypt cost factor
		LoginMaxAttempts: envInt("LOGIN_MAX_ATTEMPTS", 5),           // lock after this many failures
		LoginLockout:     envDur("LOGIN_LOCKOUT", 15*time.Minute),   // lockout window
		ImportBodyLimit:  getenv("IMPORT_MAX_BYTES", "32M"),         // backup payload cap
		ImportTimeout:    envDur("IMPORT_TIMEOUT", 60*time.Second),  // import transaction timeout
		AMQPURL:          os.Getenv("RABBITMQ_URL"),                 // empty disables events
		AuditLogDir:      getenv("AUDIT_LOG_DIR", "logs"),           // audit log directory
		LogLevel:         getenv("LOG_LEVEL", "info"),               // logger level
	}
}

// LoadDB reads only the database settings.  The CLI uses it directly so
// it does not require HTTP or JWT variables.
func LoadDB() DBConfig {
	c := DBConfig{
		Driver: strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DSN:    os.Getenv("DB_DSN"),
		User:   os.Getenv("DB_USER"),
		Pass:   os.Getenv("DB_PASS"),
		Host:   os.Getenv("DB_HOST"),
		Port:   os.Getenv("DB_PORT"),
		Name:   os.Getenv("DB_NAME"),
	}
	if c.DSN != "" {
		return c
	}
	if c.Driver == "sqlite" || c.Driver == "sqlite3" {
		c.Name = must("DB_NAME") // file path of the sqlite database
		return c
	}
	c.User = must("DB_USER")
	c.Host = must("DB_HOST")
	c.Port = must("DB_PORT")
	c.Name = must("DB_NAME")
	return c
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
