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
	"github.com/danielhkuo/votedesk/ledger"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/views"
)

type VotingHandler struct {
	store  *db.Store
	cfg    cliparse.Config
	ledger *ledger.Ledger
}

func NewVotingHandler(store *db.Store, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: store, cfg: cfg, ledger: ledger.New(store)}
}

// VotePage handles GET /vote
func (h *VotingHandler) VotePage(w http.ResponseWriter, r *http.Request, id models.Identity) {
	voter, ok := id.(models.Voter)
	if !ok {
		seeOther(w, r, "/admin")
		return
	}
	h.renderVote(w, r, voter, "")
}

// SubmitVote handles POST /vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request, id models.Identity) {
	voter, ok := id.(models.Voter)
	if !ok {
		seeOther(w, r, "/admin")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderVote(w, r, voter, "Invalid form")
		return
	}

	outcome, err := h.ledger.CastVote(r.Context(), voter, ledger.Ballot{
		CandidateID: formValue(r, "candidateId"),
		VoterNo:     formValue(r, "voterNo"),
		IPHash:      auth.HashIP(middleware.GetClientIP(r), h.cfg.AuditSalt),
		UserAgent:   r.UserAgent(),
	})
	if errors.Is(err, ledger.ErrNotVoter) {
		slog.Warn("stale voter session on admin account", "user_id", voter.UserID)
		seeOther(w, r, "/admin")
		return
	}
	if err != nil {
		internalError(w, voter, "failed to cast vote", err)
		return
	}

	if outcome != ledger.VoteRecorded {
		slog.Info("vote rejected", "user_id", voter.UserID, "outcome", outcome.String())
	}

	h.renderVote(w, r, voter, outcome.Message())
}

// renderVote shows the ballot, or the reason voting is unavailable.
// The window is re-evaluated on every render.
func (h *VotingHandler) renderVote(w http.ResponseWriter, r *http.Request, voter models.Voter, message string) {
	ctx := r.Context()

	e, err := h.store.GetElection(ctx)
	if err != nil {
		internalError(w, voter, "failed to load election", err)
		return
	}
	candidates, err := h.store.ListCandidates(ctx)
	if err != nil {
		internalError(w, voter, "failed to list candidates", err)
		return
	}
	user, err := h.store.GetUserByID(ctx, voter.UserID)
	if err != nil {
		internalError(w, voter, "failed to load voter", err)
		return
	}

	if message == "" && user.Voted {
		message = "You have already voted"
	}

	now := time.Now()
	views.Render(w, http.StatusOK, views.Vote, views.Page{
		Title:   "Vote",
		Viewer:  voter,
		Message: message,
		Data: views.VoteData{
			Status:       election.Status(e, now),
			Election:     e,
			VotingOpen:   election.IsVotingOpen(e, now),
			AlreadyVoted: user.Voted,
			Candidates:   candidates,
		},
	})
}
