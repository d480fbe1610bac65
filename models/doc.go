// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, identity, and response types.

# Identity

A session carries one of two identity variants:

  - Voter: user id, username, voter number
  - Admin: user id, username

Both implement the Identity interface. Code that needs a capability asks for
the concrete variant: the vote ledger takes a Voter, admin handlers take an
Admin.

# Domain Types

  - User: account record including vote status
  - Candidate: a name with an id, listed in creation order
  - Election: the single schedule record (start, end, active, published)
  - Vote: one per user, immutable
  - Tally, TallyEntry: per-candidate vote counts

# Response Types

JSON responses for the API endpoints:

  - ElectionStatusResponse: status, voting_open, start/end dates, published
  - ResultsResponse: published, tally, total_votes
  - ErrorResponse: error, message

# Constants

Roles:

	RoleVoter = "voter"
	RoleAdmin = "admin"

Election status values:

	StatusNone      = "none"
	StatusScheduled = "scheduled"
	StatusOpen      = "open"
	StatusEnded     = "ended"
	StatusStopped   = "stopped"
*/
package models
