// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/views"
)

// AccountHandler serves the pages of a logged-in user
type AccountHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewAccountHandler(store *db.Store, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{store: store, cfg: cfg}
}

// Schedule handles GET /schedule
func (h *AccountHandler) Schedule(w http.ResponseWriter, r *http.Request, id models.Identity) {
	e, err := h.store.GetElection(r.Context())
	if err != nil {
		internalError(w, id, "failed to load election", err)
		return
	}

	views.Render(w, http.StatusOK, views.Schedule, views.Page{
		Title:  "Schedule",
		Viewer: id,
		Data: views.ScheduleData{
			Status:   election.Status(e, time.Now()),
			Election: e,
		},
	})
}

// Profile handles GET /profile
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request, id models.Identity) {
	ctx := r.Context()

	user, err := h.store.GetUserByID(ctx, id.ID())
	if err != nil {
		internalError(w, id, "failed to load user", err)
		return
	}

	data := views.ProfileData{User: user}
	if user.VotedCandidateID != nil {
		c, err := h.store.GetCandidate(ctx, *user.VotedCandidateID)
		switch {
		case errors.Is(err, db.ErrNotFound):
		case err != nil:
			internalError(w, id, "failed to load candidate", err)
			return
		default:
			data.CandidateName = c.Name
		}
	}

	views.Render(w, http.StatusOK, views.Profile, views.Page{
		Title:  "Profile",
		Viewer: id,
		Data:   data,
	})
}
