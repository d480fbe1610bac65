// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/session"
	"github.com/danielhkuo/votedesk/testutil"
)

func setup(t *testing.T) (*http.ServeMux, *db.Store, *session.Manager) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	sessions := session.NewManager(time.Hour, false)
	return NewRouter(store, testutil.GetTestConfig(), sessions), store, sessions
}

func TestHealthEndpoint(t *testing.T) {
	mux, _, _ := setup(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _, _ := setup(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, "Online voting")

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/no-such-page", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestRouteExistence(t *testing.T) {
	mux, store, sessions := setup(t)
	admin := testutil.CreateTestAdmin(t, store, "root").Identity()
	cookie := testutil.LoginAs(t, sessions, admin)

	// 400 or a redirect are valid answers depending on handler logic;
	// a 405 means the route is missing.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/register"},
		{"POST", "/register"},
		{"GET", "/login"},
		{"POST", "/login"},
		{"GET", "/logout"},
		{"GET", "/admin"},
		{"POST", "/admin/candidates/add"},
		{"GET", "/admin/candidates/test-id/edit"},
		{"POST", "/admin/candidates/test-id/edit"},
		{"POST", "/admin/candidates/test-id/delete"},
		{"POST", "/admin/election/create"},
		{"POST", "/admin/election/start"},
		{"POST", "/admin/election/stop"},
		{"POST", "/admin/election/publish"},
		{"GET", "/vote"},
		{"POST", "/vote"},
		{"GET", "/schedule"},
		{"GET", "/profile"},
		{"GET", "/verify"},
		{"POST", "/verify"},
		{"GET", "/results"},
		{"GET", "/api/election"},
		{"GET", "/api/results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutil.MakeFormRequest(tc.method, tc.path, url.Values{}, cookie)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _, _ := setup(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/vote"},
		{"GET", "/admin/election/publish"},
		{"PUT", "/admin/candidates/test-id/edit"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAccessControl(t *testing.T) {
	mux, store, sessions := setup(t)
	voter := testutil.CreateTestVoter(t, store, "alice", "VN-001").Identity()
	admin := testutil.CreateTestAdmin(t, store, "root").Identity()
	voterCookie := testutil.LoginAs(t, sessions, voter)
	adminCookie := testutil.LoginAs(t, sessions, admin)

	testCases := []struct {
		name           string
		method         string
		path           string
		cookie         *http.Cookie
		expectedStatus int
		location       string
	}{
		{"anonymous vote page", "GET", "/vote", nil, http.StatusSeeOther, "/login"},
		{"anonymous profile", "GET", "/profile", nil, http.StatusSeeOther, "/login"},
		{"anonymous admin", "GET", "/admin", nil, http.StatusSeeOther, "/login"},
		{"voter on admin", "GET", "/admin", voterCookie, http.StatusForbidden, ""},
		{"voter publishes", "POST", "/admin/election/publish", voterCookie, http.StatusForbidden, ""},
		{"admin on vote page", "GET", "/vote", adminCookie, http.StatusSeeOther, "/admin"},
		{"voter on vote page", "GET", "/vote", voterCookie, http.StatusOK, ""},
		{"admin dashboard", "GET", "/admin", adminCookie, http.StatusOK, ""},
		{"admin schedule", "GET", "/schedule", adminCookie, http.StatusOK, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest(tc.method, tc.path, tc.cookie))

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.location != "" {
				if got := w.Header().Get("Location"); got != tc.location {
					t.Errorf("Expected redirect to %q, got %q", tc.location, got)
				}
			}
		})
	}

	e, err := store.GetElection(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if e != nil && e.Published {
		t.Error("A voter must not be able to publish results")
	}
}

// TestVotingFlow drives a whole election through the router: register,
// log in, vote, publish, read results.
func TestVotingFlow(t *testing.T) {
	mux, store, sessions := setup(t)
	adminCookie := testutil.LoginAs(t, sessions, testutil.CreateTestAdmin(t, store, "root").Identity())

	post := func(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeFormRequest("POST", path, form, cookie))
		return w
	}

	testutil.AssertRedirect(t, post("/admin/candidates/add", url.Values{"name": {"Alice"}}, adminCookie), "/admin")
	testutil.AssertRedirect(t, post("/admin/candidates/add", url.Values{"name": {"Bob"}}, adminCookie), "/admin")

	now := time.Now()
	schedule := url.Values{
		"startDate": {now.Add(-time.Hour).Format(time.RFC3339)},
		"endDate":   {now.Add(time.Hour).Format(time.RFC3339)},
	}
	testutil.AssertRedirect(t, post("/admin/election/create", schedule, adminCookie), "/admin")

	w := post("/register", url.Values{"username": {"carol"}, "password": {"pw-carol"}, "voterNo": {"VN-777"}}, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = post("/login", url.Values{"username": {"carol"}, "password": {"pw-carol"}}, nil)
	testutil.AssertRedirect(t, w, "/vote")
	voterCookie := w.Result().Cookies()[0]

	candidates, err := store.ListCandidates(t.Context())
	if err != nil || len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %v (%v)", candidates, err)
	}

	w = post("/vote", url.Values{"candidateId": {candidates[1].ID}, "voterNo": {"VN-777"}}, voterCookie)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, "Vote recorded. Thank you!")

	w = post("/vote", url.Values{"candidateId": {candidates[0].ID}, "voterNo": {"VN-777"}}, voterCookie)
	testutil.AssertBodyContains(t, w, "You already voted")

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/results", nil))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	testutil.AssertRedirect(t, post("/admin/election/publish", nil, adminCookie), "/admin")

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/results", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Published || resp.Total != 1 || resp.Tally[1].Name != "Bob" || resp.Tally[1].Votes != 1 {
		t.Errorf("Unexpected results %+v", resp)
	}
}
