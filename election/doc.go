// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election decides when voting is open and who may see the results.

All functions are pure: they take the schedule record and the current time
(or the caller's identity) and never touch storage. Callers evaluate them on
every request because the window boundary can pass mid-session.

# Voting Window

	open := election.IsVotingOpen(e, time.Now())

A nil election is closed. With start and end both set, voting is open when
the election is active and start <= now <= end. Otherwise it is open exactly
when active.

# Results

	tally := election.ComputeTally(candidates, votes)
	if election.CanViewResults(e, viewer) { ... }

The tally has one entry per candidate in listing order, zero-filled.
Results are visible to admins at any time and to everyone once published.
*/
package election
