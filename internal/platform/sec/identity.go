// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"time"

	"github.com/taibuivan/medira/internal/platform/perm"
)

// Identity is the resolved caller of an authenticated request.
//
// Unlike [AuthClaims], which is a snapshot frozen into the token at issuance,
// an Identity is re-derived from the account store on every verification: the
// role here is the account's current role, and a token whose subject no longer
// exists never becomes an Identity.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      perm.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Can reports whether this identity's role grants the given permission.
func (identity *Identity) Can(permission perm.Permission) bool {
	if identity == nil {
		return false
	}
	return perm.Has(identity.Role, permission)
}
