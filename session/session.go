// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session keeps login sessions server-side, keyed by an opaque
// cookie token.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/models"
)

// CookieName is the session cookie's name
const CookieName = "votedesk_session"

type entry struct {
	identity models.Identity
	expires  time.Time
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

func NewManager(ttl time.Duration, secure bool) *Manager {
	return &Manager{
		sessions: make(map[string]entry),
		ttl:      ttl,
		secure:   secure,
		now:      time.Now,
	}
}

// Create stores the identity under a new token.
func (m *Manager) Create(id models.Identity) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = entry{identity: id, expires: m.now().Add(m.ttl)}
	return token, nil
}

// Get returns the identity for a token. Expired sessions are dropped.
func (m *Manager) Get(token string) (models.Identity, bool) {
	m.mu.RLock()
	e, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !m.now().Before(e.expires) {
		m.Destroy(token)
		return nil, false
	}
	return e.identity, true
}

func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Sweep removes expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, e := range m.sessions {
		if !now.Before(e.expires) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}

// Start creates a session and sets its cookie on the response.
func (m *Manager) Start(w http.ResponseWriter, id models.Identity) error {
	token, err := m.Create(id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Identity returns the caller's identity, or nil for anonymous requests.
func (m *Manager) Identity(r *http.Request) models.Identity {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	id, ok := m.Get(c.Value)
	if !ok {
		return nil
	}
	return id
}

// End destroys the caller's session and expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		m.Destroy(c.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
