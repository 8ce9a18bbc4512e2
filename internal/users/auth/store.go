// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Storage Contracts

// AccountRepository abstracts persistence for identity records.
//
// Implementations must treat email lookups as case-insensitive; callers pass
// already-canonicalized addresses.
type AccountRepository interface {
	// FindByEmail retrieves an account by its canonical email address.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID retrieves an account by primary key.
	FindByID(ctx context.Context, id string) (*Account, error)

	// Create persists a brand new account row.
	Create(ctx context.Context, account *Account) error
}

// LoginThrottle tracks failed login attempts per subject within a rolling
// window so brute-force attempts can be cut off before password verification.
type LoginThrottle interface {
	// TooManyAttempts reports whether the subject has exhausted its attempt
	// budget for the current window.
	TooManyAttempts(ctx context.Context, subject string) (bool, error)

	// RecordFailure registers one failed attempt and arms the window TTL.
	RecordFailure(ctx context.Context, subject string, window time.Duration) error

	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, subject string) error
}
