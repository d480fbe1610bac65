// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/views"
)

// dateTimeLocal is the value format of an HTML datetime-local input
const dateTimeLocal = "2006-01-02T15:04"

type AdminHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewAdminHandler(store *db.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: store, cfg: cfg}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	h.renderDashboard(w, r, admin, http.StatusOK, "")
}

func (h *AdminHandler) renderDashboard(w http.ResponseWriter, r *http.Request, admin models.Admin, status int, message string) {
	ctx := r.Context()

	e, err := h.store.GetElection(ctx)
	if err != nil {
		internalError(w, admin, "failed to load election", err)
		return
	}
	candidates, err := h.store.ListCandidates(ctx)
	if err != nil {
		internalError(w, admin, "failed to list candidates", err)
		return
	}
	votes, err := h.store.ListVotes(ctx)
	if err != nil {
		internalError(w, admin, "failed to list votes", err)
		return
	}
	users, err := h.store.ListUsers(ctx)
	if err != nil {
		internalError(w, admin, "failed to list users", err)
		return
	}

	views.Render(w, status, views.Admin, views.Page{
		Title:   "Admin",
		Viewer:  admin,
		Message: message,
		Data: views.AdminData{
			Status:   election.Status(e, time.Now()),
			Election: e,
			Tally:    election.ComputeTally(candidates, votes),
			Users:    users,
		},
	})
}

// AddCandidate handles POST /admin/candidates/add
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, admin, http.StatusBadRequest, "Invalid form")
		return
	}

	name := formValue(r, "name")
	if name == "" {
		seeOther(w, r, "/admin")
		return
	}

	c, err := h.store.CreateCandidate(r.Context(), name)
	if err != nil {
		internalError(w, admin, "failed to create candidate", err)
		return
	}

	slog.Info("candidate added", "candidate_id", c.ID, "name", c.Name, "admin", admin.Username)
	seeOther(w, r, "/admin")
}

// EditCandidateForm handles GET /admin/candidates/{id}/edit
func (h *AdminHandler) EditCandidateForm(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	c, err := h.store.GetCandidate(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		seeOther(w, r, "/admin")
		return
	}
	if err != nil {
		internalError(w, admin, "failed to load candidate", err)
		return
	}

	views.Render(w, http.StatusOK, views.EditCandidate, views.Page{
		Title:  "Edit candidate",
		Viewer: admin,
		Data:   c,
	})
}

// EditCandidate handles POST /admin/candidates/{id}/edit
func (h *AdminHandler) EditCandidate(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, admin, http.StatusBadRequest, "Invalid form")
		return
	}

	id := r.PathValue("id")
	name := formValue(r, "name")
	if name == "" {
		seeOther(w, r, "/admin/candidates/"+id+"/edit")
		return
	}

	err := h.store.RenameCandidate(r.Context(), id, name)
	if errors.Is(err, db.ErrNotFound) {
		slog.Warn("rename of unknown candidate", "candidate_id", id)
		seeOther(w, r, "/admin")
		return
	}
	if err != nil {
		internalError(w, admin, "failed to rename candidate", err)
		return
	}

	slog.Info("candidate renamed", "candidate_id", id, "name", name, "admin", admin.Username)
	seeOther(w, r, "/admin")
}

// DeleteCandidate handles POST /admin/candidates/{id}/delete
// Every vote for the candidate is removed with it.
func (h *AdminHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	id := r.PathValue("id")

	removed, err := h.store.DeleteCandidate(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		slog.Warn("delete of unknown candidate", "candidate_id", id)
		seeOther(w, r, "/admin")
		return
	}
	if err != nil {
		internalError(w, admin, "failed to delete candidate", err)
		return
	}

	slog.Info("candidate deleted", "candidate_id", id, "votes_removed", removed, "admin", admin.Username)
	seeOther(w, r, "/admin")
}

// CreateElection handles POST /admin/election/create
func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, admin, http.StatusBadRequest, "Invalid form")
		return
	}

	rawStart, rawEnd := formValue(r, "startDate"), formValue(r, "endDate")
	if rawStart == "" || rawEnd == "" {
		h.renderDashboard(w, r, admin, http.StatusBadRequest, "Start and end dates are required")
		return
	}

	start, err := parseDateTime(rawStart)
	if err != nil {
		h.renderDashboard(w, r, admin, http.StatusBadRequest, "Invalid start date")
		return
	}
	end, err := parseDateTime(rawEnd)
	if err != nil {
		h.renderDashboard(w, r, admin, http.StatusBadRequest, "Invalid end date")
		return
	}
	if end.Before(start) {
		h.renderDashboard(w, r, admin, http.StatusBadRequest, "End date must not be before start date")
		return
	}

	if err := h.store.ScheduleElection(r.Context(), start, end); err != nil {
		internalError(w, admin, "failed to schedule election", err)
		return
	}

	slog.Info("election scheduled", "start", start, "end", end, "admin", admin.Username)
	seeOther(w, r, "/admin")
}

// StartElection handles POST /admin/election/start
func (h *AdminHandler) StartElection(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	if err := h.store.StartElection(r.Context()); err != nil {
		internalError(w, admin, "failed to start election", err)
		return
	}
	slog.Info("election started", "admin", admin.Username)
	seeOther(w, r, "/admin")
}

// StopElection handles POST /admin/election/stop
func (h *AdminHandler) StopElection(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	if err := h.store.StopElection(r.Context()); err != nil {
		internalError(w, admin, "failed to stop election", err)
		return
	}
	slog.Info("election stopped", "admin", admin.Username)
	seeOther(w, r, "/admin")
}

// PublishResults handles POST /admin/election/publish
func (h *AdminHandler) PublishResults(w http.ResponseWriter, r *http.Request, admin models.Admin) {
	if err := h.store.PublishResults(r.Context()); err != nil {
		internalError(w, admin, "failed to publish results", err)
		return
	}
	slog.Info("results published", "admin", admin.Username)
	seeOther(w, r, "/admin")
}

// parseDateTime accepts RFC 3339 or a datetime-local value in server time
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateTimeLocal, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
