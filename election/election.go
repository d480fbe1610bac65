// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"time"

	"github.com/danielhkuo/votedesk/models"
)

// IsVotingOpen reports whether votes may be cast at now.
//
// With both bounds set the window is inclusive on each end and still
// requires the active flag. With either bound missing only the flag counts.
func IsVotingOpen(e *models.Election, now time.Time) bool {
	if e == nil {
		return false
	}
	if e.StartDate != nil && e.EndDate != nil {
		return e.Active && !now.Before(*e.StartDate) && !now.After(*e.EndDate)
	}
	return e.Active
}

// Status describes the election for display. It agrees with IsVotingOpen:
// Status is StatusOpen exactly when voting is open.
func Status(e *models.Election, now time.Time) string {
	switch {
	case e == nil:
		return models.StatusNone
	case IsVotingOpen(e, now):
		return models.StatusOpen
	case !e.Active:
		return models.StatusStopped
	case e.StartDate != nil && now.Before(*e.StartDate):
		return models.StatusScheduled
	default:
		return models.StatusEnded
	}
}

// CanViewResults reports whether viewer may see the tally. Admins may always
// preview; everyone else waits for publication. A nil viewer is anonymous.
func CanViewResults(e *models.Election, viewer models.Identity) bool {
	if _, ok := viewer.(models.Admin); ok {
		return true
	}
	return e != nil && e.Published
}

// ComputeTally counts votes per candidate. Entries follow the order of
// candidates and include candidates with no votes. Votes for candidates not
// in the list are ignored.
func ComputeTally(candidates []models.Candidate, votes []models.Vote) models.Tally {
	counts := make(map[string]int, len(candidates))
	for _, v := range votes {
		counts[v.CandidateID]++
	}

	tally := models.Tally{Entries: make([]models.TallyEntry, 0, len(candidates))}
	for _, c := range candidates {
		n := counts[c.ID]
		tally.Entries = append(tally.Entries, models.TallyEntry{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       n,
		})
		tally.Total += n
	}
	return tally
}
