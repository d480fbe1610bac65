// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3001)
  - DatabaseURL: PostgreSQL connection string or SQLite path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AuditSalt: Secret for hashing voter IPs (required)
  - SessionTTL: Session lifetime (default: 12h)
  - CookieSecure: Mark the session cookie Secure
  - AdminUsername, AdminPassword: Bootstrap admin (default: admin/admin123)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--audit-salt     Vote audit salt
	--session-ttl    Session lifetime
	--cookie-secure  Secure session cookie
	--admin-user     Bootstrap admin username
	--admin-password Bootstrap admin password

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	AUDIT_SALT     → --audit-salt
	SESSION_TTL    → --session-ttl
	COOKIE_SECURE  → --cookie-secure
	ADMIN_USERNAME → --admin-user
	ADMIN_PASSWORD → --admin-password

A .env file in the working directory is loaded first; variables already
present in the environment win. CLI flags take precedence over both.

# Maintenance Tools

ParseDatabaseFlags reads only -d and -t and returns the remaining
positional arguments:

	cfg, args, err := cliparse.ParseDatabaseFlags("createadmin", os.Args[1:])
*/
package cliparse
