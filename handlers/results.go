// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/session"
	"github.com/danielhkuo/votedesk/views"
)

const notPublished = "Results are not published yet."

// ResultsHandler serves the public pages: results, voter verification and
// the JSON status endpoints.
type ResultsHandler struct {
	store    *db.Store
	cfg      cliparse.Config
	sessions *session.Manager
}

func NewResultsHandler(store *db.Store, cfg cliparse.Config, sessions *session.Manager) *ResultsHandler {
	return &ResultsHandler{store: store, cfg: cfg, sessions: sessions}
}

// tally loads the gate decision and, when allowed, the per-candidate counts.
func (h *ResultsHandler) tally(r *http.Request, viewer models.Identity) (*models.Election, *models.Tally, error) {
	ctx := r.Context()

	e, err := h.store.GetElection(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !election.CanViewResults(e, viewer) {
		return e, nil, nil
	}

	candidates, err := h.store.ListCandidates(ctx)
	if err != nil {
		return nil, nil, err
	}
	votes, err := h.store.ListVotes(ctx)
	if err != nil {
		return nil, nil, err
	}

	t := election.ComputeTally(candidates, votes)
	return e, &t, nil
}

// Results handles GET /results
func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	viewer := h.sessions.Identity(r)

	e, t, err := h.tally(r, viewer)
	if err != nil {
		internalError(w, viewer, "failed to compute results", err)
		return
	}

	page := views.Page{Title: "Results", Viewer: viewer}
	if t == nil {
		page.Message = notPublished
	} else {
		page.Data = views.ResultsData{Published: e != nil && e.Published, Tally: *t}
	}
	views.Render(w, http.StatusOK, views.Results, page)
}

// VerifyForm handles GET /verify
func (h *ResultsHandler) VerifyForm(w http.ResponseWriter, r *http.Request) {
	views.Render(w, http.StatusOK, views.Verify, views.Page{
		Title:  "Verify",
		Viewer: h.sessions.Identity(r),
	})
}

// Verify handles POST /verify
// Only the username, a masked voter number and the schedule are revealed.
func (h *ResultsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	viewer := h.sessions.Identity(r)
	page := views.Page{Title: "Verify", Viewer: viewer}

	if err := r.ParseForm(); err != nil {
		page.Message = "Invalid form"
		views.Render(w, http.StatusBadRequest, views.Verify, page)
		return
	}

	voterNo := formValue(r, "voterNo")
	if voterNo == "" {
		page.Message = "Enter a voter number"
		views.Render(w, http.StatusBadRequest, views.Verify, page)
		return
	}

	ctx := r.Context()
	user, err := h.store.GetUserByVoterNo(ctx, voterNo)
	if errors.Is(err, db.ErrNotFound) {
		page.Message = "Voter not found"
		page.Data = views.VerifyData{Found: false}
		views.Render(w, http.StatusOK, views.Verify, page)
		return
	}
	if err != nil {
		internalError(w, viewer, "failed to look up voter", err)
		return
	}

	e, err := h.store.GetElection(ctx)
	if err != nil {
		internalError(w, viewer, "failed to load election", err)
		return
	}

	page.Data = views.VerifyData{
		Found:         true,
		Username:      user.Username,
		MaskedVoterNo: auth.MaskVoterNo(user.VoterNo),
		Election:      e,
	}
	views.Render(w, http.StatusOK, views.Verify, page)
}

// ElectionStatus handles GET /api/election
func (h *ResultsHandler) ElectionStatus(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.GetElection(r.Context())
	if err != nil {
		slog.Error("failed to load election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	resp := models.ElectionStatusResponse{
		Status:     election.Status(e, now),
		VotingOpen: election.IsVotingOpen(e, now),
	}
	if e != nil {
		resp.StartDate = e.StartDate
		resp.EndDate = e.EndDate
		resp.Published = e.Published
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// APIResults handles GET /api/results
func (h *ResultsHandler) APIResults(w http.ResponseWriter, r *http.Request) {
	e, t, err := h.tally(r, h.sessions.Identity(r))
	if err != nil {
		slog.Error("failed to compute results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if t == nil {
		middleware.ErrorResponse(w, http.StatusForbidden, notPublished)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Published: e != nil && e.Published,
		Tally:     t.Entries,
		Total:     t.Total,
	})
}
