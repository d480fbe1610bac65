// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/session"
	"github.com/danielhkuo/votedesk/testutil"
)

type testEnv struct {
	store    *db.Store
	cfg      cliparse.Config
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		store:    testutil.SetupTestDB(t),
		cfg:      testutil.GetTestConfig(),
		sessions: session.NewManager(time.Hour, false),
	}
}

func (e *testEnv) voter(t *testing.T, username, voterNo string) models.Voter {
	t.Helper()
	return testutil.CreateTestVoter(t, e.store, username, voterNo).Identity().(models.Voter)
}

func (e *testEnv) admin(t *testing.T, username string) models.Admin {
	t.Helper()
	return testutil.CreateTestAdmin(t, e.store, username).Identity().(models.Admin)
}

func (e *testEnv) election(t *testing.T) *models.Election {
	t.Helper()
	el, err := e.store.GetElection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return el
}

func (e *testEnv) user(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := e.store.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func (e *testEnv) voteCount(t *testing.T) int {
	t.Helper()
	votes, err := e.store.ListVotes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return len(votes)
}
