package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

const (
	defaultPort          = 3001
	defaultSessionTTL    = 12 * time.Hour
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AuditSalt    string
	SessionTTL   time.Duration
	CookieSecure bool

	// Bootstrap admin, created at startup when no admin exists
	AdminUsername string
	AdminPassword string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	loadDotEnv()

	fs := flag.NewFlagSet("votedesk", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", false, "Mark session cookies Secure")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AuditSalt, "audit-salt", "", "Vote audit IP hash salt (prefer env)")
	fs.StringVar(&cfg.AdminUsername, "admin-user", "", "Bootstrap admin username")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Bootstrap admin password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if err := fillDatabase(&cfg.DatabaseURL, &cfg.DatabaseType); err != nil {
		return Config{}, err
	}

	if cfg.SessionTTL == 0 {
		if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = ttl
		} else {
			cfg.SessionTTL = defaultSessionTTL
		}
	}
	if cfg.SessionTTL < 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if !cfg.CookieSecure {
		if v := os.Getenv("COOKIE_SECURE"); v != "" {
			secure, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid COOKIE_SECURE env variable")
			}
			cfg.CookieSecure = secure
		}
	}

	if cfg.AdminUsername == "" {
		cfg.AdminUsername = getenv("ADMIN_USERNAME", defaultAdminUsername)
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = getenv("ADMIN_PASSWORD", defaultAdminPassword)
	}

	// Secrets - MUST be provided
	if cfg.AuditSalt == "" {
		cfg.AuditSalt = os.Getenv("AUDIT_SALT")
	}
	if cfg.AuditSalt == "" {
		return Config{}, errors.New("AUDIT_SALT required")
	}

	return cfg, nil
}

// ParseDatabaseFlags parses only the database settings, for maintenance tools
func ParseDatabaseFlags(name string, args []string) (Config, []string, error) {
	var cfg Config

	loadDotEnv()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	if err := fillDatabase(&cfg.DatabaseURL, &cfg.DatabaseType); err != nil {
		return Config{}, nil, err
	}

	return cfg, fs.Args(), nil
}

func fillDatabase(url, dbType *string) error {
	if *url == "" {
		*url = os.Getenv("DATABASE_URL")
	}
	if *url == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if *dbType == "" {
		*dbType = getenv("DATABASE_TYPE", DatabaseSQLite)
	}
	if *dbType != DatabaseSQLite && *dbType != DatabasePostgres {
		return fmt.Errorf("unsupported database type %q", *dbType)
	}
	return nil
}

// loadDotEnv reads .env into the environment if the file exists.
// Variables already set are not overridden. A malformed file is logged
// and otherwise ignored.
func loadDotEnv() {
	if err := readDotEnv(".env"); err != nil {
		slog.Warn("ignoring unreadable .env", "error", err)
	}
}

// readDotEnv loads path, treating a missing file as empty.
func readDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
