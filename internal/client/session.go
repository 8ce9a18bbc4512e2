// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client implements the session state machine used by Medira terminal
and desktop frontends.

It mirrors what a browser client keeps in memory: the current bearer token,
the identity snapshot returned at login, and a permission view derived from
the role. The server remains authoritative; everything here exists only to
decide what a frontend should render and which calls it should even attempt.

Architecture:

  - Session: Lock-free snapshot of the current authentication state.
  - TokenStore: Pluggable persistence so a session survives process restarts.
  - Subscribers: Fan-out notification on every state transition.
*/
package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/taibuivan/medira/internal/platform/perm"
	"github.com/taibuivan/medira/internal/platform/sec"
)

// State enumerates the session lifecycle.
type State string

const (
	// StateUnauthenticated is the initial state: no token, no identity.
	StateUnauthenticated State = "unauthenticated"

	// StateAuthenticating marks an in-flight login attempt.
	StateAuthenticating State = "authenticating"

	// StateAuthenticated holds a token believed to be valid.
	StateAuthenticated State = "authenticated"

	// StateExpired holds a token the client itself has judged expired. The
	// next server round-trip would 401, so the frontend should re-prompt.
	StateExpired State = "expired"

	// StateLoggedOut is a terminal state reached by explicit logout.
	StateLoggedOut State = "logged_out"
)

// Snapshot is one immutable observation of the session.
type Snapshot struct {
	State     State
	Token     string
	Identity  *sec.Identity
	ExpiresAt time.Time
}

// Authenticated reports whether the snapshot carries a usable session.
func (snapshot Snapshot) Authenticated() bool {
	return snapshot.State == StateAuthenticated
}

// Can reports whether the snapshot's role allows the permission.
//
// This is a rendering hint only. The server re-evaluates the same permission
// table on every request, so a stale client answer can hide a button but
// never grant access.
func (snapshot Snapshot) Can(permission perm.Permission) bool {
	if !snapshot.Authenticated() || snapshot.Identity == nil {
		return false
	}
	return perm.Has(snapshot.Identity.Role, permission)
}

// Session is the client-side authentication state machine.
//
// # Concurrency
//
// Reads are lock-free via an atomic snapshot pointer. Transitions take a
// mutex so that store writes and subscriber notification stay ordered.
type Session struct {
	current atomic.Pointer[Snapshot]

	mu          sync.Mutex
	store       TokenStore
	subscribers []func(Snapshot)

	// now is swappable for tests.
	now func() time.Time
}

// NewSession constructs a [Session] in the unauthenticated state.
//
// The store may be nil, in which case the session is memory-only and dies
// with the process.
func NewSession(store TokenStore) *Session {
	session := &Session{
		store: store,
		now:   time.Now,
	}
	session.current.Store(&Snapshot{State: StateUnauthenticated})
	return session
}

// WithClock overrides the time source. Intended for tests only.
func (session *Session) WithClock(now func() time.Time) *Session {
	session.now = now
	return session
}

// Current returns the latest snapshot. Never nil.
func (session *Session) Current() Snapshot {
	snapshot := session.current.Load()

	// Expiry is observed lazily on read rather than with a timer goroutine
	if snapshot.State == StateAuthenticated && !snapshot.ExpiresAt.IsZero() && !session.now().Before(snapshot.ExpiresAt) {
		expired := *snapshot
		expired.State = StateExpired
		expired.Token = ""
		session.transition(expired)
		return expired
	}

	return *snapshot
}

// Subscribe registers a callback invoked on every state transition.
//
// Callbacks run synchronously on the transitioning goroutine and must not
// call back into the session.
func (session *Session) Subscribe(callback func(Snapshot)) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.subscribers = append(session.subscribers, callback)
}

// # Transitions

// BeginLogin moves the session into the authenticating state.
func (session *Session) BeginLogin() {
	session.transition(Snapshot{State: StateAuthenticating})
}

// CompleteLogin installs a fresh token and identity after a successful login.
func (session *Session) CompleteLogin(token string, identity *sec.Identity, expiresAt time.Time) {
	session.transition(Snapshot{
		State:     StateAuthenticated,
		Token:     token,
		Identity:  identity,
		ExpiresAt: expiresAt,
	})

	if session.store != nil {
		_ = session.store.Save(StoredSession{
			Token:     token,
			ExpiresAt: expiresAt,
		})
	}
}

// FailLogin returns the session to unauthenticated after a rejected attempt.
func (session *Session) FailLogin() {
	session.transition(Snapshot{State: StateUnauthenticated})
}

// MarkExpired records that the server rejected the current token.
//
// Frontends call this on any 401 so the UI degrades to the login prompt
// instead of hammering a dead session.
func (session *Session) MarkExpired() {
	previous := session.current.Load()
	session.transition(Snapshot{
		State:    StateExpired,
		Identity: previous.Identity,
	})

	if session.store != nil {
		_ = session.store.Clear()
	}
}

// Logout clears the session and its persisted token.
//
// Logout is idempotent: calling it from any state, any number of times,
// always lands in the logged-out state without error.
func (session *Session) Logout() {
	session.transition(Snapshot{State: StateLoggedOut})

	if session.store != nil {
		_ = session.store.Clear()
	}
}

// Restore attempts to resume a persisted session.
//
// Degradation is silent: a missing, unreadable, or already-expired stored
// token leaves the session unauthenticated rather than surfacing an error.
// The user simply sees the login prompt again.
func (session *Session) Restore() Snapshot {
	if session.store == nil {
		return session.Current()
	}

	stored, err := session.store.Load()
	if err != nil || stored.Token == "" {
		return session.Current()
	}

	if !stored.ExpiresAt.IsZero() && !session.now().Before(stored.ExpiresAt) {
		_ = session.store.Clear()
		return session.Current()
	}

	// Identity stays nil until the frontend refreshes it from /auth/profile.
	session.transition(Snapshot{
		State:     StateAuthenticated,
		Token:     stored.Token,
		ExpiresAt: stored.ExpiresAt,
	})

	return session.Current()
}

// transition swaps the snapshot and notifies subscribers in order.
func (session *Session) transition(next Snapshot) {
	session.mu.Lock()
	session.current.Store(&next)
	subscribers := make([]func(Snapshot), len(session.subscribers))
	copy(subscribers, session.subscribers)
	session.mu.Unlock()

	for _, callback := range subscribers {
		callback(next)
	}
}
