// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/session"
)

// TestPassword is the password of every user created by these helpers
const TestPassword = "password123"

// SetupTestDB opens a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, filepath.Join(t.TempDir(), "votedesk.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.New(conn)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3001,
		DatabaseURL:   "file::memory:",
		DatabaseType:  cliparse.DatabaseSQLite,
		AuditSalt:     "test-audit-salt",
		SessionTTL:    time.Hour,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}
}

func hashTestPassword(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return hash
}

// CreateTestVoter registers a voter with TestPassword
func CreateTestVoter(t *testing.T, store *db.Store, username, voterNo string) *models.User {
	t.Helper()

	u, err := store.CreateUser(context.Background(), models.User{
		Username:     username,
		PasswordHash: hashTestPassword(t),
		Role:         models.RoleVoter,
		VoterNo:      voterNo,
	})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return u
}

// CreateTestAdmin provisions an admin with TestPassword
func CreateTestAdmin(t *testing.T, store *db.Store, username string) *models.User {
	t.Helper()

	u, err := store.CreateUser(context.Background(), models.User{
		Username:     username,
		PasswordHash: hashTestPassword(t),
		Role:         models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return u
}

// AddTestCandidate adds a candidate and returns its ID
func AddTestCandidate(t *testing.T, store *db.Store, name string) string {
	t.Helper()

	c, err := store.CreateCandidate(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return c.ID
}

// ScheduleTestElection schedules an active election for [start, end]
func ScheduleTestElection(t *testing.T, store *db.Store, start, end time.Time) {
	t.Helper()

	if err := store.ScheduleElection(context.Background(), start, end); err != nil {
		t.Fatalf("Failed to schedule test election: %v", err)
	}
}

// OpenTestElection schedules an election that is open right now
func OpenTestElection(t *testing.T, store *db.Store) {
	t.Helper()
	now := time.Now()
	ScheduleTestElection(t, store, now.Add(-time.Hour), now.Add(time.Hour))
}

// CastTestVote records a vote directly in storage
func CastTestVote(t *testing.T, store *db.Store, userID, candidateID string) {
	t.Helper()

	_, err := store.RecordVote(context.Background(), models.Vote{
		UserID:      userID,
		CandidateID: candidateID,
		CastAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// LoginAs starts a session for the identity and returns its cookie
func LoginAs(t *testing.T, sessions *session.Manager, id models.Identity) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := sessions.Start(w, id); err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected one session cookie, got %d", len(cookies))
	}
	return cookies[0]
}

// MakeRequest creates an HTTP test request, attaching the cookie when non-nil
func MakeRequest(method, path string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// MakeFormRequest creates a form-encoded POST-style request
func MakeFormRequest(method, path string, form url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 303 See Other to location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Errorf("Expected status 303, got %d. Body: %s", w.Code, w.Body.String())
		return
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

// AssertBodyContains checks that the response body contains every substring
func AssertBodyContains(t *testing.T, w *httptest.ResponseRecorder, subs ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range subs {
		if !strings.Contains(body, s) {
			t.Errorf("Expected body to contain %q", s)
		}
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
