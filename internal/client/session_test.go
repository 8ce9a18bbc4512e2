// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/medira/internal/client"
	"github.com/taibuivan/medira/internal/platform/perm"
	"github.com/taibuivan/medira/internal/platform/sec"
)

func adminIdentity() *sec.Identity {
	return &sec.Identity{ID: "a1", Email: "admin@email.com", Role: perm.RoleAdmin}
}

func userIdentity() *sec.Identity {
	return &sec.Identity{ID: "u1", Email: "user@email.com", Role: perm.RoleUser}
}

/*
TestSession_LoginLifecycle walks the state machine through a successful
login and inspects the snapshot at each step.
*/
func TestSession_LoginLifecycle(t *testing.T) {
	session := client.NewSession(nil)

	assert.Equal(t, client.StateUnauthenticated, session.Current().State)
	assert.False(t, session.Current().Authenticated())

	session.BeginLogin()
	assert.Equal(t, client.StateAuthenticating, session.Current().State)

	session.CompleteLogin("token-1", adminIdentity(), time.Now().Add(time.Hour))
	snapshot := session.Current()
	assert.Equal(t, client.StateAuthenticated, snapshot.State)
	assert.True(t, snapshot.Authenticated())
	assert.Equal(t, "token-1", snapshot.Token)
	assert.Equal(t, perm.RoleAdmin, snapshot.Identity.Role)
}

/*
TestSession_FailedLogin verifies the rollback to unauthenticated after a
rejected attempt.
*/
func TestSession_FailedLogin(t *testing.T) {
	session := client.NewSession(nil)

	session.BeginLogin()
	session.FailLogin()

	snapshot := session.Current()
	assert.Equal(t, client.StateUnauthenticated, snapshot.State)
	assert.Empty(t, snapshot.Token)
}

/*
TestSession_Can verifies permission gating on the snapshot: advisory checks
mirror the server-side table.
*/
func TestSession_Can(t *testing.T) {
	session := client.NewSession(nil)

	// Unauthenticated: everything denied
	assert.False(t, session.Current().Can(perm.PatientList))

	session.CompleteLogin("token-1", userIdentity(), time.Now().Add(time.Hour))
	snapshot := session.Current()

	assert.True(t, snapshot.Can(perm.PatientList))
	assert.True(t, snapshot.Can(perm.PatientView))
	assert.False(t, snapshot.Can(perm.PatientDelete))
	assert.False(t, snapshot.Can(perm.AccountCreate))
}

/*
TestSession_LazyExpiry verifies that a session flips to expired the moment
the deadline passes, observed on read without any timer.
*/
func TestSession_LazyExpiry(t *testing.T) {
	clock := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	session := client.NewSession(nil).WithClock(func() time.Time { return clock })

	session.CompleteLogin("token-1", userIdentity(), clock.Add(time.Minute))
	assert.True(t, session.Current().Authenticated())

	// Exactly at the deadline: expired
	clock = clock.Add(time.Minute)
	snapshot := session.Current()
	assert.Equal(t, client.StateExpired, snapshot.State)
	assert.Empty(t, snapshot.Token, "an expired snapshot must not leak the dead token")
	assert.False(t, snapshot.Can(perm.PatientList))
}

/*
TestSession_LogoutIdempotent verifies that logout lands in the same state
from anywhere, any number of times.
*/
func TestSession_LogoutIdempotent(t *testing.T) {
	session := client.NewSession(nil)

	// Logout before any login
	session.Logout()
	assert.Equal(t, client.StateLoggedOut, session.Current().State)

	// Logout after login, twice
	session.CompleteLogin("token-1", adminIdentity(), time.Now().Add(time.Hour))
	session.Logout()
	session.Logout()

	snapshot := session.Current()
	assert.Equal(t, client.StateLoggedOut, snapshot.State)
	assert.Empty(t, snapshot.Token)
	assert.Nil(t, snapshot.Identity)
}

/*
TestSession_Subscribe verifies transition fan-out ordering.
*/
func TestSession_Subscribe(t *testing.T) {
	session := client.NewSession(nil)

	var states []client.State
	session.Subscribe(func(snapshot client.Snapshot) {
		states = append(states, snapshot.State)
	})

	session.BeginLogin()
	session.CompleteLogin("token-1", adminIdentity(), time.Now().Add(time.Hour))
	session.Logout()

	assert.Equal(t, []client.State{
		client.StateAuthenticating,
		client.StateAuthenticated,
		client.StateLoggedOut,
	}, states)
}

/*
TestSession_RestorePersisted verifies that a valid stored token resumes the
session across a process boundary.
*/
func TestSession_RestorePersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := client.NewFileTokenStore(path)

	first := client.NewSession(store)
	first.CompleteLogin("token-1", adminIdentity(), time.Now().Add(time.Hour))

	// New process: fresh session over the same store
	second := client.NewSession(store)
	snapshot := second.Restore()

	assert.Equal(t, client.StateAuthenticated, snapshot.State)
	assert.Equal(t, "token-1", snapshot.Token)
	assert.Nil(t, snapshot.Identity, "identity is re-fetched from the server, never persisted")
}

/*
TestSession_RestoreExpired verifies silent degradation: an expired stored
token yields the login prompt, not an error, and the file is cleared.
*/
func TestSession_RestoreExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := client.NewFileTokenStore(path)

	require.NoError(t, store.Save(client.StoredSession{
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	session := client.NewSession(store)
	snapshot := session.Restore()

	assert.Equal(t, client.StateUnauthenticated, snapshot.State)
	assert.Empty(t, snapshot.Token)

	// The dead token was removed from disk
	stored, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, stored.Token)
}

/*
TestSession_RestoreMissingOrCorrupt verifies that absent and unreadable
stores degrade silently.
*/
func TestSession_RestoreMissingOrCorrupt(t *testing.T) {
	// Missing file
	store := client.NewFileTokenStore(filepath.Join(t.TempDir(), "missing.json"))
	session := client.NewSession(store)
	assert.Equal(t, client.StateUnauthenticated, session.Restore().State)

	// Nil store
	session = client.NewSession(nil)
	assert.Equal(t, client.StateUnauthenticated, session.Restore().State)
}

/*
TestSession_MarkExpired verifies the 401-driven degradation path: the token
is dropped locally and cleared from disk, but the identity stays visible so
the UI can name who timed out.
*/
func TestSession_MarkExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := client.NewFileTokenStore(path)

	session := client.NewSession(store)
	session.CompleteLogin("token-1", userIdentity(), time.Now().Add(time.Hour))

	session.MarkExpired()

	snapshot := session.Current()
	assert.Equal(t, client.StateExpired, snapshot.State)
	assert.Empty(t, snapshot.Token)
	require.NotNil(t, snapshot.Identity)
	assert.Equal(t, "user@email.com", snapshot.Identity.Email)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, stored.Token)
}
