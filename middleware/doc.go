// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /vote", middleware.WithLogging(handler))

Logs request start (method, path, client_ip) and completion (status,
duration_ms).

# Access Control

Handlers that need a logged-in caller receive the identity explicitly:

	middleware.RequireLogin(sessions.Identity, votingHandler.VotePage)
	middleware.RequireAdmin(sessions.Identity, adminHandler.Dashboard)

Anonymous callers are redirected to /login. RequireAdmin answers voters
with a 403 page.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusForbidden, "results not published")

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for the hashed IP stored with each vote.
*/
package middleware
