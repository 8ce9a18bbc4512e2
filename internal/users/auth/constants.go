// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Validation Field Names

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
	FieldRole     = "role"
)

// # Input Limits

const (
	// MinPasswordLength is the minimum accepted password length for new accounts.
	MinPasswordLength = 8

	// MaxEmailLength bounds the email column and prevents absurd inputs.
	MaxEmailLength = 254

	// MaxNameLength bounds the display name column.
	MaxNameLength = 120
)
