// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalizes user-supplied text before it is stored
// or compared.
//
// Person names arrive from forms in whatever composition the client keyboard
// produced; NFC normalization keeps "José" equal to "José" regardless of
// whether the é was precomposed. Emails are lowered so uniqueness and lookups
// are case-insensitive everywhere.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name trims surrounding whitespace and applies Unicode NFC composition.
func Name(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// Email canonicalizes an email address for storage and lookup: trimmed,
// NFC-composed, lower-cased.
func Email(value string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(value)))
}
