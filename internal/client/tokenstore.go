// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// StoredSession is the persisted form of a client session.
//
// Only the token and its expiry are written to disk. The identity is
// deliberately not persisted; it is re-fetched from /auth/profile after a
// restore so the role is always current.
type StoredSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenStore persists a session token across process restarts.
type TokenStore interface {
	// Save writes the session, replacing any previous one.
	Save(session StoredSession) error

	// Load reads the persisted session. A missing session is not an error;
	// implementations return a zero [StoredSession].
	Load() (StoredSession, error)

	// Clear removes the persisted session. Clearing an absent session is a no-op.
	Clear() error
}

// # File Store

// FileTokenStore implements [TokenStore] on a single JSON file.
//
// The file is written with 0600 so other local users cannot read the token.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store at the given path. Parent directories
// are created on the first Save.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath returns the conventional per-user token location.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".medira-session.json"
	}
	return filepath.Join(home, ".medira", "session.json")
}

// Save writes the session atomically via a temp file rename.
func (store *FileTokenStore) Save(session StoredSession) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return err
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	tempPath := store.path + ".tmp"
	if err := os.WriteFile(tempPath, payload, 0o600); err != nil {
		return err
	}

	return os.Rename(tempPath, store.path)
}

// Load reads the persisted session. A missing or corrupt file yields a zero
// session without error, matching the silent-degradation contract in
// [Session.Restore].
func (store *FileTokenStore) Load() (StoredSession, error) {
	payload, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StoredSession{}, nil
		}
		return StoredSession{}, err
	}

	var session StoredSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return StoredSession{}, nil
	}

	return session, nil
}

// Clear removes the persisted session file.
func (store *FileTokenStore) Clear() error {
	err := os.Remove(store.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
