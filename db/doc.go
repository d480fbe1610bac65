// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the database connection, schema, and record storage.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

PostgreSQL uses github.com/lib/pq; SQLite uses modernc.org/sqlite with
foreign keys enabled and a single pooled connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: accounts, roles, voter numbers, vote status
  - candidates: names in creation order
  - election: the single schedule row (id = 1)
  - votes: one per user (UNIQUE user_id)

# Relationships

	candidates 1──* votes
	users      1──1 votes
	users      *──1 candidates (voted_candidate_id, SET NULL on delete)

# Store

Store wraps the connection with one method per operation:

	store := db.New(conn)
	vote, err := store.RecordVote(ctx, models.Vote{UserID: id, CandidateID: cid, CastAt: now})

RecordVote is the only multi-step write that must be atomic. It returns
ErrAlreadyVoted when the user's vote was already claimed, including by a
concurrent request.

# Errors

Driver constraint failures are translated into sentinel errors:

  - ErrUsernameTaken, ErrVoterNoTaken: unique violations on users
  - ErrAlreadyVoted: the user has a vote
  - ErrCandidateNotFound: the vote references a missing candidate
  - ErrNotFound: lookup by key found nothing
*/
package db
