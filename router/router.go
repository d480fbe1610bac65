// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/handlers"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/session"
)

func NewRouter(store *db.Store, cfg cliparse.Config, sessions *session.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, cfg, sessions)
	adminHandler := handlers.NewAdminHandler(store, cfg)
	votingHandler := handlers.NewVotingHandler(store, cfg)
	accountHandler := handlers.NewAccountHandler(store, cfg)
	resultsHandler := handlers.NewResultsHandler(store, cfg, sessions)

	login := func(next func(http.ResponseWriter, *http.Request, models.Identity)) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireLogin(sessions.Identity, next))
	}
	admin := func(next func(http.ResponseWriter, *http.Request, models.Admin)) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(sessions.Identity, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts (public)
	mux.HandleFunc("GET /{$}", middleware.WithLogging(authHandler.Home))
	mux.HandleFunc("GET /register", middleware.WithLogging(authHandler.RegisterForm))
	mux.HandleFunc("POST /register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("GET /login", middleware.WithLogging(authHandler.LoginForm))
	mux.HandleFunc("POST /login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("GET /logout", middleware.WithLogging(authHandler.Logout))

	// Administration (admin only)
	mux.HandleFunc("GET /admin", admin(adminHandler.Dashboard))
	mux.HandleFunc("POST /admin/candidates/add", admin(adminHandler.AddCandidate))
	mux.HandleFunc("GET /admin/candidates/{id}/edit", admin(adminHandler.EditCandidateForm))
	mux.HandleFunc("POST /admin/candidates/{id}/edit", admin(adminHandler.EditCandidate))
	mux.HandleFunc("POST /admin/candidates/{id}/delete", admin(adminHandler.DeleteCandidate))
	mux.HandleFunc("POST /admin/election/create", admin(adminHandler.CreateElection))
	mux.HandleFunc("POST /admin/election/start", admin(adminHandler.StartElection))
	mux.HandleFunc("POST /admin/election/stop", admin(adminHandler.StopElection))
	mux.HandleFunc("POST /admin/election/publish", admin(adminHandler.PublishResults))

	// Voting and account pages (login required)
	mux.HandleFunc("GET /vote", login(votingHandler.VotePage))
	mux.HandleFunc("POST /vote", login(votingHandler.SubmitVote))
	mux.HandleFunc("GET /schedule", login(accountHandler.Schedule))
	mux.HandleFunc("GET /profile", login(accountHandler.Profile))

	// Verification and results (public)
	mux.HandleFunc("GET /verify", middleware.WithLogging(resultsHandler.VerifyForm))
	mux.HandleFunc("POST /verify", middleware.WithLogging(resultsHandler.Verify))
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.Results))
	mux.HandleFunc("GET /api/election", middleware.WithLogging(resultsHandler.ElectionStatus))
	mux.HandleFunc("GET /api/results", middleware.WithLogging(resultsHandler.APIResults))

	return mux
}
