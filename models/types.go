// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Role constants
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Election status constants
const (
	StatusNone      = "none"
	StatusScheduled = "scheduled"
	StatusOpen      = "open"
	StatusEnded     = "ended"
	StatusStopped   = "stopped"
)

// Identity types

// Identity is the authenticated caller carried by a session.
// It is either a Voter or an Admin.
type Identity interface {
	ID() string
	Name() string
	Role() string
}

type Voter struct {
	UserID   string
	Username string
	VoterNo  string
}

func (v Voter) ID() string   { return v.UserID }
func (v Voter) Name() string { return v.Username }
func (v Voter) Role() string { return RoleVoter }

type Admin struct {
	UserID   string
	Username string
}

func (a Admin) ID() string   { return a.UserID }
func (a Admin) Name() string { return a.Username }
func (a Admin) Role() string { return RoleAdmin }

// Domain types

type User struct {
	ID               string
	Username         string
	PasswordHash     string
	Role             string
	VoterNo          string // empty for admins
	Voted            bool
	VotedAt          *time.Time
	VotedCandidateID *string
	CreatedAt        time.Time
}

// Identity returns the session identity variant for the user's role.
func (u User) Identity() Identity {
	if u.Role == RoleAdmin {
		return Admin{UserID: u.ID, Username: u.Username}
	}
	return Voter{UserID: u.ID, Username: u.Username, VoterNo: u.VoterNo}
}

type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// Election is the single, system-wide schedule record.
type Election struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Active    bool       `json:"active"`
	Published bool       `json:"published"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"` // Never expose in JSON
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
}

// Tally types

type TallyEntry struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
}

type Tally struct {
	Entries []TallyEntry `json:"entries"`
	Total   int          `json:"total"`
}

// Response types

type ElectionStatusResponse struct {
	Status     string     `json:"status"`
	VotingOpen bool       `json:"voting_open"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Published  bool       `json:"published"`
}

type ResultsResponse struct {
	Published bool         `json:"published"`
	Tally     []TallyEntry `json:"tally"`
	Total     int          `json:"total_votes"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
