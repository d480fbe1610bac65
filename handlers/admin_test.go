// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/votedesk/testutil"
)

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.store, env.cfg)
	admin := env.admin(t, "root")

	a := testutil.AddTestCandidate(t, env.store, "Alice")
	testutil.AddTestCandidate(t, env.store, "Bob")
	voter := env.voter(t, "v1", "VN-001")
	testutil.OpenTestElection(t, env.store)
	testutil.CastTestVote(t, env.store, voter.UserID, a)

	w := httptest.NewRecorder()
	handler.Dashboard(w, testutil.MakeRequest("GET", "/admin", nil), admin)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, "Admin dashboard", "Alice", "Bob", "Total votes: 1", "VN-001", "open")
}

func TestCandidateManagement(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.store, env.cfg)
	admin := env.admin(t, "root")
	ctx := context.Background()

	t.Run("add", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.AddCandidate(w, testutil.MakeFormRequest("POST", "/admin/candidates/add", url.Values{"name": {" Alice "}}, nil), admin)
		testutil.AssertRedirect(t, w, "/admin")

		candidates, err := env.store.ListCandidates(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(candidates) != 1 || candidates[0].Name != "Alice" {
			t.Errorf("Expected one candidate Alice, got %+v", candidates)
		}
	})

	t.Run("add empty name is ignored", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.AddCandidate(w, testutil.MakeFormRequest("POST", "/admin/candidates/add", url.Values{"name": {""}}, nil), admin)
		testutil.AssertRedirect(t, w, "/admin")

		candidates, _ := env.store.ListCandidates(ctx)
		if len(candidates) != 1 {
			t.Errorf("Expected still one candidate, got %d", len(candidates))
		}
	})

	id := testutil.AddTestCandidate(t, env.store, "Bobby")

	t.Run("edit form", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/admin/candidates/"+id+"/edit", nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.EditCandidateForm(w, req, admin)

		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertBodyContains(t, w, `value="Bobby"`)
	})

	t.Run("edit form unknown candidate", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/admin/candidates/nope/edit", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()
		handler.EditCandidateForm(w, req, admin)

		testutil.AssertRedirect(t, w, "/admin")
	})

	t.Run("rename", func(t *testing.T) {
		req := testutil.MakeFormRequest("POST", "/admin/candidates/"+id+"/edit", url.Values{"name": {"Bob"}}, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.EditCandidate(w, req, admin)

		testutil.AssertRedirect(t, w, "/admin")
		c, err := env.store.GetCandidate(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if c.Name != "Bob" {
			t.Errorf("Expected name Bob, got %q", c.Name)
		}
	})

	t.Run("rename to empty goes back to the form", func(t *testing.T) {
		req := testutil.MakeFormRequest("POST", "/admin/candidates/"+id+"/edit", url.Values{"name": {" "}}, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.EditCandidate(w, req, admin)

		testutil.AssertRedirect(t, w, "/admin/candidates/"+id+"/edit")
	})

	t.Run("delete unknown", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/admin/candidates/nope/delete", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()
		handler.DeleteCandidate(w, req, admin)

		testutil.AssertRedirect(t, w, "/admin")
	})
}

func TestDeleteCandidate_RemovesVotes(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.store, env.cfg)
	admin := env.admin(t, "root")

	a := testutil.AddTestCandidate(t, env.store, "A")
	b := testutil.AddTestCandidate(t, env.store, "B")
	testutil.OpenTestElection(t, env.store)

	var aVoters []string
	for i, no := range []string{"VN-1", "VN-2", "VN-3"} {
		v := env.voter(t, "a"+string(rune('0'+i)), no)
		testutil.CastTestVote(t, env.store, v.UserID, a)
		aVoters = append(aVoters, v.UserID)
	}
	bVoter := env.voter(t, "b0", "VN-4")
	testutil.CastTestVote(t, env.store, bVoter.UserID, b)

	req := testutil.MakeRequest("POST", "/admin/candidates/"+a+"/delete", nil)
	req.SetPathValue("id", a)
	w := httptest.NewRecorder()
	handler.DeleteCandidate(w, req, admin)

	testutil.AssertRedirect(t, w, "/admin")
	if n := env.voteCount(t); n != 1 {
		t.Errorf("Expected 1 vote left, got %d", n)
	}
	for _, id := range aVoters {
		u := env.user(t, id)
		if !u.Voted || u.VotedCandidateID != nil {
			t.Errorf("Expected voted=true with no candidate, got voted=%v candidate=%v", u.Voted, u.VotedCandidateID)
		}
	}
}

func TestCreateElection(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.store, env.cfg)
	admin := env.admin(t, "root")

	testCases := []struct {
		name           string
		form           url.Values
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing end",
			form:           url.Values{"startDate": {"2026-06-01T09:00"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Start and end dates are required",
		},
		{
			name:           "invalid start",
			form:           url.Values{"startDate": {"tomorrow"}, "endDate": {"2026-06-01T17:00"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid start date",
		},
		{
			name:           "end before start",
			form:           url.Values{"startDate": {"2026-06-01T17:00"}, "endDate": {"2026-06-01T09:00"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "End date must not be before start date",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CreateElection(w, testutil.MakeFormRequest("POST", "/admin/election/create", tc.form, nil), admin)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			testutil.AssertBodyContains(t, w, tc.expectedBody)
			if env.election(t) != nil {
				t.Error("No election should have been created")
			}
		})
	}

	t.Run("datetime-local", func(t *testing.T) {
		form := url.Values{"startDate": {"2026-06-01T09:00"}, "endDate": {"2026-06-01T17:00"}}
		w := httptest.NewRecorder()
		handler.CreateElection(w, testutil.MakeFormRequest("POST", "/admin/election/create", form, nil), admin)

		testutil.AssertRedirect(t, w, "/admin")
		e := env.election(t)
		if e == nil || !e.Active || e.Published {
			t.Fatalf("Expected an active unpublished election, got %+v", e)
		}
		want := time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)
		if e.StartDate == nil || !e.StartDate.Equal(want) {
			t.Errorf("Expected start %v, got %v", want, e.StartDate)
		}
	})

	t.Run("rfc3339 resets publication", func(t *testing.T) {
		if err := env.store.PublishResults(context.Background()); err != nil {
			t.Fatal(err)
		}

		form := url.Values{"startDate": {"2026-07-01T09:00:00Z"}, "endDate": {"2026-07-01T09:00:00Z"}}
		w := httptest.NewRecorder()
		handler.CreateElection(w, testutil.MakeFormRequest("POST", "/admin/election/create", form, nil), admin)

		testutil.AssertRedirect(t, w, "/admin")
		e := env.election(t)
		if e.Published {
			t.Error("A new schedule should reset publication")
		}
		want := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
		if !e.EndDate.Equal(want) {
			t.Errorf("Expected end %v, got %v", want, e.EndDate)
		}
	})
}

func TestElectionControls(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.store, env.cfg)
	admin := env.admin(t, "root")

	w := httptest.NewRecorder()
	handler.StopElection(w, testutil.MakeRequest("POST", "/admin/election/stop", nil), admin)
	testutil.AssertRedirect(t, w, "/admin")
	if env.election(t) != nil {
		t.Fatal("Stop without an election should not create one")
	}

	w = httptest.NewRecorder()
	handler.StartElection(w, testutil.MakeRequest("POST", "/admin/election/start", nil), admin)
	testutil.AssertRedirect(t, w, "/admin")
	e := env.election(t)
	if e == nil || !e.Active || e.StartDate != nil || e.EndDate != nil {
		t.Fatalf("Expected an unbounded active election, got %+v", e)
	}

	w = httptest.NewRecorder()
	handler.StopElection(w, testutil.MakeRequest("POST", "/admin/election/stop", nil), admin)
	testutil.AssertRedirect(t, w, "/admin")
	if env.election(t).Active {
		t.Error("Expected the election to be stopped")
	}

	w = httptest.NewRecorder()
	handler.PublishResults(w, testutil.MakeRequest("POST", "/admin/election/publish", nil), admin)
	testutil.AssertRedirect(t, w, "/admin")
	if e := env.election(t); !e.Published || e.Active {
		t.Errorf("Expected published and inactive, got %+v", e)
	}
}

func TestParseDateTime(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"2026-06-01T09:30", time.Date(2026, 6, 1, 9, 30, 0, 0, time.Local), false},
		{"2026-06-01T09:30:00Z", time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC), false},
		{"2026-06-01T09:30:00+02:00", time.Date(2026, 6, 1, 7, 30, 0, 0, time.UTC), false},
		{"2026-06-01", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseDateTime(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
