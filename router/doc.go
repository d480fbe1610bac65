// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes of votedesk.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg, sessions)

# Endpoints

Health:

	GET /health

Accounts (public):

	GET       /                 - Landing page, or redirect by role
	GET, POST /register         - Voter registration
	GET, POST /login            - Login
	GET       /logout           - End the session

Administration (admin session required):

	GET  /admin                          - Dashboard
	POST /admin/candidates/add           - Add candidate
	GET  /admin/candidates/{id}/edit     - Edit form
	POST /admin/candidates/{id}/edit     - Rename candidate
	POST /admin/candidates/{id}/delete   - Delete candidate and its votes
	POST /admin/election/create          - Set the voting window
	POST /admin/election/start           - Activate
	POST /admin/election/stop            - Deactivate
	POST /admin/election/publish         - Publish results

Voting (login required):

	GET, POST /vote
	GET       /schedule
	GET       /profile

Public:

	GET, POST /verify       - Voter number lookup
	GET       /results      - Results once published
	GET       /api/election - Election status as JSON
	GET       /api/results  - Tally as JSON, 403 until published

Every route except /health is wrapped in middleware.WithLogging.
*/
package router
