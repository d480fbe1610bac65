// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/session"
	"github.com/danielhkuo/votedesk/views"
)

type AuthHandler struct {
	store    *db.Store
	cfg      cliparse.Config
	sessions *session.Manager
}

func NewAuthHandler(store *db.Store, cfg cliparse.Config, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{store: store, cfg: cfg, sessions: sessions}
}

// Home handles GET /
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	switch h.sessions.Identity(r).(type) {
	case models.Admin:
		seeOther(w, r, "/admin")
		return
	case models.Voter:
		seeOther(w, r, "/vote")
		return
	}
	views.Render(w, http.StatusOK, views.Index, views.Page{Title: "Home"})
}

// RegisterForm handles GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, views.Register, views.Page{
		Title:  "Register",
		Viewer: h.sessions.Identity(r),
	})
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	viewer := h.sessions.Identity(r)
	page := views.Page{Title: "Register", Viewer: viewer}

	if err := r.ParseForm(); err != nil {
		page.Message = "Invalid form"
		views.Render(w, http.StatusBadRequest, views.Register, page)
		return
	}

	username := formValue(r, "username")
	password := r.PostFormValue("password")
	voterNo := formValue(r, "voterNo")
	page.Data = views.FormData{Username: username, VoterNo: voterNo}

	if username == "" || password == "" || voterNo == "" {
		page.Message = "Fill all fields"
		views.Render(w, http.StatusBadRequest, views.Register, page)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		internalError(w, viewer, "failed to hash password", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleVoter,
		VoterNo:      voterNo,
	})
	switch {
	case errors.Is(err, db.ErrUsernameTaken):
		page.Message = "Username already taken"
		views.Render(w, http.StatusConflict, views.Register, page)
		return
	case errors.Is(err, db.ErrVoterNoTaken):
		page.Message = "Voter number already registered"
		views.Render(w, http.StatusConflict, views.Register, page)
		return
	case err != nil:
		internalError(w, viewer, "failed to create user", err)
		return
	}

	slog.Info("voter registered", "user_id", user.ID, "username", user.Username)

	views.Render(w, http.StatusOK, views.Login, views.Page{
		Title:   "Login",
		Viewer:  viewer,
		Message: "Registered successfully - please login",
		Data:    views.FormData{Username: username},
	})
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, views.Login, views.Page{
		Title:  "Login",
		Viewer: h.sessions.Identity(r),
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	viewer := h.sessions.Identity(r)
	page := views.Page{Title: "Login", Viewer: viewer, Message: "Invalid credentials"}

	if err := r.ParseForm(); err != nil {
		views.Render(w, http.StatusBadRequest, views.Login, page)
		return
	}

	username := formValue(r, "username")
	page.Data = views.FormData{Username: username}

	user, err := h.store.GetUserByUsername(r.Context(), username)
	if errors.Is(err, db.ErrNotFound) {
		views.Render(w, http.StatusUnauthorized, views.Login, page)
		return
	}
	if err != nil {
		internalError(w, viewer, "failed to load user", err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, r.PostFormValue("password")); err != nil {
		slog.Warn("failed login", "username", username)
		views.Render(w, http.StatusUnauthorized, views.Login, page)
		return
	}

	// Replace any session the browser already holds
	if c, err := r.Cookie(session.CookieName); err == nil {
		h.sessions.Destroy(c.Value)
	}

	id := user.Identity()
	if err := h.sessions.Start(w, id); err != nil {
		internalError(w, viewer, "failed to start session", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)

	if _, ok := id.(models.Admin); ok {
		seeOther(w, r, "/admin")
		return
	}
	seeOther(w, r, "/vote")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	seeOther(w, r, "/")
}
