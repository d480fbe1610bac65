// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledger records votes, one per voter.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
)

// ErrNotVoter is returned when the account behind a voter session is no
// longer a voter, for example after a promotion to admin.
var ErrNotVoter = errors.New("account is not a voter")

// Outcome is the business result of a vote attempt.
type Outcome int

const (
	_ Outcome = iota
	VoteRecorded
	NoElectionScheduled
	VotingClosed
	VoterNumberMismatch
	AlreadyVoted
	InvalidCandidate
)

var outcomeMessages = map[Outcome]string{
	VoteRecorded:        "Vote recorded. Thank you!",
	NoElectionScheduled: "No election scheduled",
	VotingClosed:        "Voting is not open at this time",
	VoterNumberMismatch: "Voter number mismatch",
	AlreadyVoted:        "You already voted",
	InvalidCandidate:    "Invalid candidate",
}

// Message is the text shown to the voter.
func (o Outcome) Message() string {
	return outcomeMessages[o]
}

func (o Outcome) String() string {
	switch o {
	case VoteRecorded:
		return "vote_recorded"
	case NoElectionScheduled:
		return "no_election_scheduled"
	case VotingClosed:
		return "voting_closed"
	case VoterNumberMismatch:
		return "voter_number_mismatch"
	case AlreadyVoted:
		return "already_voted"
	case InvalidCandidate:
		return "invalid_candidate"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Store is the storage the ledger needs.
type Store interface {
	GetElection(ctx context.Context) (*models.Election, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	RecordVote(ctx context.Context, v models.Vote) (*models.Vote, error)
}

// Ballot is what the voter submitted.
type Ballot struct {
	CandidateID string
	VoterNo     string
	IPHash      string
	UserAgent   string
}

type Ledger struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// WithClock returns a copy of the ledger that reads the time from now.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	return &Ledger{store: l.store, now: now}
}

// CastVote checks eligibility in order and records the vote.
//
// The checks run as: account is a voter, election exists, voting open,
// voter number matches, not yet voted, candidate exists. The first failing
// check decides the outcome. The stored role is read again since a session
// may outlive a promotion; a non-voter gets ErrNotVoter. Any other error is
// a storage failure.
func (l *Ledger) CastVote(ctx context.Context, voter models.Voter, b Ballot) (Outcome, error) {
	user, err := l.store.GetUserByID(ctx, voter.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to load voter: %w", err)
	}
	if user.Role == models.RoleAdmin {
		return 0, ErrNotVoter
	}

	e, err := l.store.GetElection(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load election: %w", err)
	}
	if e == nil {
		return NoElectionScheduled, nil
	}

	now := l.now()
	if !election.IsVotingOpen(e, now) {
		return VotingClosed, nil
	}

	if user.VoterNo == "" || b.VoterNo != user.VoterNo {
		return VoterNumberMismatch, nil
	}
	if user.Voted {
		return AlreadyVoted, nil
	}

	v := models.Vote{
		UserID:      user.ID,
		CandidateID: b.CandidateID,
		CastAt:      now,
	}
	if b.IPHash != "" {
		v.IPHash = &b.IPHash
	}
	if b.UserAgent != "" {
		v.UserAgent = &b.UserAgent
	}

	recorded, err := l.store.RecordVote(ctx, v)
	switch {
	case errors.Is(err, db.ErrAlreadyVoted):
		return AlreadyVoted, nil
	case errors.Is(err, db.ErrCandidateNotFound):
		return InvalidCandidate, nil
	case err != nil:
		return 0, fmt.Errorf("failed to record vote: %w", err)
	}

	slog.Info("vote recorded", "vote_id", recorded.ID, "user_id", user.ID, "candidate_id", recorded.CandidateID)
	return VoteRecorded, nil
}
