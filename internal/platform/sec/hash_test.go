// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/medira/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password validates against
the original and nothing else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("correct horse battery stapl", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_UniqueSalts verifies that hashing the same input twice
produces different hashes.
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("password")
	require.NoError(t, err)

	second, err := sec.HashPassword("password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_MalformedHash verifies that a corrupt stored hash
fails closed instead of erroring open.
*/
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("password", ""))
	assert.False(t, sec.CheckPasswordHash("password", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("password", "$2a$10$truncated"))
}
