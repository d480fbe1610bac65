// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for votedesk.

# Handler Types

Each handler is a struct with storage and config dependencies:

  - AuthHandler: landing page, registration, login, logout
  - AdminHandler: candidates and the election schedule
  - VotingHandler: the ballot page and vote submission
  - AccountHandler: schedule and profile pages
  - ResultsHandler: results, voter verification, JSON status endpoints

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(store, cfg)

Handlers behind a login receive the caller explicitly from
middleware.RequireLogin or middleware.RequireAdmin; public handlers read
the optional session themselves.

# Voting Flow

	GET  /vote → VotePage (ballot, or why voting is unavailable)
	POST /vote → SubmitVote (ledger.CastVote)

Admins are redirected to /admin. Business outcomes such as "Voter number
mismatch" are shown as a message on the vote page with status 200; only
storage failures produce a 500 page.

# Results

Results are visible to admins at any time and to everyone once the admin
publishes them. Creating a new schedule starts a new cycle and hides them
again.
*/
package handlers
