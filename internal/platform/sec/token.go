// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/medira/internal/platform/constants"
	"github.com/taibuivan/medira/internal/platform/perm"
)

// # Errors

var (
	// ErrTokenExpired marks a structurally valid, signature-valid token whose
	// expiry has passed.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid marks a malformed token or a signature mismatch.
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrWeakSecret is returned when the configured signing secret does not
	// carry enough entropy to key HS256.
	ErrWeakSecret = fmt.Errorf("sec: signing secret must be at least %d bytes", constants.MinAuthSecretBytes)
)

// # Claims

// AuthClaims is the payload embedded inside a signed access token.
//
// The subject (account id), email, and role are snapshots taken at issuance.
// The session layer treats only the subject as authoritative and re-derives
// the current role from the account store on every verification, so a role
// change takes effect without waiting for the token to expire.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email string    `json:"email"`
	Role  perm.Role `json:"role"`
}

// # Token Service

// TokenService issues and verifies HS256-signed JWTs keyed by a shared
// server-held secret.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewTokenService constructs a TokenService.
//
// It refuses to construct with a secret shorter than
// [constants.MinAuthSecretBytes]. A missing or weak secret is a fatal
// configuration error — the process must not start and silently serve
// unsigned sessions.
func NewTokenService(secret string, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < constants.MinAuthSecretBytes {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, errors.New("sec: token ttl must be positive")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source. Intended for tests only.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// Issue signs a new access token for the given account.
//
// The token carries sub, email, role, iat, and exp (iat + configured TTL).
func (service *TokenService) Issue(accountID string, email string, role perm.Role) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		Email: email,
		Role:  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity window of a token string.
//
// # Guarantees
//
//   - The signing method is pinned to HS256; alg-substitution tokens fail.
//   - The HMAC comparison inside the JWT library is constant-time.
//   - Expiry is strict: a token is rejected the instant now >= exp, with no
//     leeway window for clock skew.
//
// Returns [ErrTokenExpired] for an otherwise valid token past its expiry and
// [ErrTokenInvalid] for every structural or signature failure.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*AuthClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
