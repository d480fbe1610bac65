// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/testutil"
)

func TestResults_PublicationGate(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResultsHandler(env.store, env.cfg, env.sessions)

	adminCookie := testutil.LoginAs(t, env.sessions, env.admin(t, "root"))
	voter := env.voter(t, "alice", "VN-001")
	voterCookie := testutil.LoginAs(t, env.sessions, voter)

	a := testutil.AddTestCandidate(t, env.store, "Alice")
	testutil.AddTestCandidate(t, env.store, "Bob")
	testutil.OpenTestElection(t, env.store)
	testutil.CastTestVote(t, env.store, voter.UserID, a)

	testCases := []struct {
		name       string
		cookie     *http.Cookie
		expectGate bool
	}{
		{"anonymous", nil, true},
		{"voter", voterCookie, true},
		{"admin preview", adminCookie, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Results(w, testutil.MakeRequest("GET", "/results", tc.cookie))
			testutil.AssertStatus(t, w, http.StatusOK)

			body := w.Body.String()
			if gated := strings.Contains(body, "Results are not published yet."); gated != tc.expectGate {
				t.Errorf("Expected gated=%v, got %v", tc.expectGate, gated)
			}
			if shown := strings.Contains(body, "Total votes: 1"); shown == tc.expectGate {
				t.Errorf("Expected tally shown=%v", !tc.expectGate)
			}
		})
	}

	if err := env.store.PublishResults(context.Background()); err != nil {
		t.Fatal(err)
	}

	t.Run("published", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Results(w, testutil.MakeRequest("GET", "/results", nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertBodyContains(t, w, "Alice", "Bob", "Total votes: 1", "100.0%")
		if strings.Contains(w.Body.String(), "Preview") {
			t.Error("Published results should not be labelled as a preview")
		}
	})
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResultsHandler(env.store, env.cfg, env.sessions)
	env.voter(t, "alice", "VN-123456")

	t.Run("form", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.VerifyForm(w, testutil.MakeRequest("GET", "/verify", nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertBodyContains(t, w, `action="/verify"`)
	})

	t.Run("empty", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Verify(w, testutil.MakeFormRequest("POST", "/verify", url.Values{"voterNo": {""}}, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Verify(w, testutil.MakeFormRequest("POST", "/verify", url.Values{"voterNo": {"VN-000000"}}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertBodyContains(t, w, "Voter not found")
	})

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Verify(w, testutil.MakeFormRequest("POST", "/verify", url.Values{"voterNo": {"VN-123456"}}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertBodyContains(t, w, "alice", "******456", "No election scheduled")
		if strings.Contains(w.Body.String(), "VN-123456") {
			t.Error("The full voter number must not be revealed")
		}
	})
}

func TestElectionStatusAPI(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResultsHandler(env.store, env.cfg, env.sessions)

	w := httptest.NewRecorder()
	handler.ElectionStatus(w, testutil.MakeRequest("GET", "/api/election", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionStatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != models.StatusNone || resp.VotingOpen || resp.StartDate != nil {
		t.Errorf("Unexpected status without an election: %+v", resp)
	}

	testutil.OpenTestElection(t, env.store)

	w = httptest.NewRecorder()
	handler.ElectionStatus(w, testutil.MakeRequest("GET", "/api/election", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	resp = models.ElectionStatusResponse{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != models.StatusOpen || !resp.VotingOpen || resp.StartDate == nil || resp.EndDate == nil {
		t.Errorf("Unexpected status for an open election: %+v", resp)
	}
}

func TestResultsAPI(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResultsHandler(env.store, env.cfg, env.sessions)
	adminCookie := testutil.LoginAs(t, env.sessions, env.admin(t, "root"))

	a := testutil.AddTestCandidate(t, env.store, "A")
	b := testutil.AddTestCandidate(t, env.store, "B")
	testutil.OpenTestElection(t, env.store)
	for i, c := range []string{a, a, b} {
		v := env.voter(t, "v"+string(rune('0'+i)), "VN-"+string(rune('0'+i)))
		testutil.CastTestVote(t, env.store, v.UserID, c)
	}

	t.Run("gated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.APIResults(w, testutil.MakeRequest("GET", "/api/results", nil))
		testutil.AssertStatus(t, w, http.StatusForbidden)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != "Forbidden" {
			t.Errorf("Unexpected error body %+v", resp)
		}
	})

	check := func(t *testing.T, w *httptest.ResponseRecorder, published bool) {
		t.Helper()
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ResultsResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Published != published || resp.Total != 3 || len(resp.Tally) != 2 {
			t.Fatalf("Unexpected results %+v", resp)
		}
		if resp.Tally[0].CandidateID != a || resp.Tally[0].Votes != 2 || resp.Tally[1].Votes != 1 {
			t.Errorf("Unexpected tally %+v", resp.Tally)
		}
	}

	t.Run("admin preview", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.APIResults(w, testutil.MakeRequest("GET", "/api/results", adminCookie))
		check(t, w, false)
	})

	if err := env.store.PublishResults(context.Background()); err != nil {
		t.Fatal(err)
	}

	t.Run("published", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.APIResults(w, testutil.MakeRequest("GET", "/api/results", nil))
		check(t, w, true)
	})
}
