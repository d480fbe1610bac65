// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the votedesk server.

votedesk is a small online voting site: registered voters cast one vote each
for a candidate inside an administrator-defined window, and the administrator
publishes the tally when voting is over.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=votedesk.db AUDIT_SALT=... go run .

Or with flags:

	go run . -p 3001 -t postgres -d "postgres://..." -audit-salt ...

A .env file in the working directory is loaded when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - AUDIT_SALT (-audit-salt): Secret for hashing voter IP addresses

Optional settings:

  - PORT (-p): Server port (default: 3001)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TTL (-session-ttl): Session lifetime (default: 12h)
  - COOKIE_SECURE (-cookie-secure): Send the session cookie over HTTPS only
  - ADMIN_USERNAME, ADMIN_PASSWORD: Admin created on first start
    (default: admin / admin123)

# Architecture

  - election: voting window and results visibility rules
  - ledger: one-vote-per-voter recording
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, access control, JSON helpers
  - session: server-side sessions
  - views: embedded HTML templates
  - models: domain types and the Voter/Admin identities
  - auth: password hashing and token generation
  - db: schema and storage
  - cliparse: Configuration parsing

Maintenance commands live under cmd/: createadmin and seedcandidates.
*/
package main
