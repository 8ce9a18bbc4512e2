// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/medira/internal/platform/perm"
	"github.com/taibuivan/medira/internal/platform/sec"
)

// # Entities

// Account is the master identity record backing every authenticated session.
//
// # Security
//
// PasswordHash is excluded from JSON serialization. The bcrypt hash must never
// leave the service boundary, not even to admin clients.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         perm.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity converts the stored account into the request-scoped identity
// carried through middleware and handlers.
//
// The role comes from the database row, not from any token snapshot, so a
// role change takes effect on the next resolved request.
func (account *Account) Identity() *sec.Identity {
	return &sec.Identity{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
