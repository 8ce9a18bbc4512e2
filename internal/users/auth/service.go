// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity and access management core of Medira.

It handles credential verification, signed session token issuance, and the
per-request resolution of a bearer token back into a live identity.

Architecture:

  - Service: Orchestrates business logic (Login, ResolveSession, CreateAccount).
  - Repository: Abstracted interfaces for Postgres (Accounts) and Redis (Throttle).
  - Security: Bcrypt credential hashes and HMAC-signed JWTs via [sec].

The package guarantees that every credential failure looks identical from the
outside, so account existence cannot be probed through the login endpoint.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/medira/internal/platform/apperr"
	"github.com/taibuivan/medira/internal/platform/constants"
	"github.com/taibuivan/medira/internal/platform/ctxutil"
	"github.com/taibuivan/medira/internal/platform/perm"
	"github.com/taibuivan/medira/internal/platform/sec"
	"github.com/taibuivan/medira/pkg/normalize"
	"github.com/taibuivan/medira/pkg/uuid"
)

// # Contracts & Types

// TokenCodec defines the contract for issuing and verifying session tokens.
type TokenCodec interface {
	// Issue creates a signed token string for the given account snapshot.
	Issue(accountID string, email string, role perm.Role) (string, error)

	// Verify checks a token string and returns its claims, or
	// [sec.ErrTokenExpired] / [sec.ErrTokenInvalid].
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// Service implements authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to credential checks,
// token issuance, or session resolution must be reviewed by the security team.
type Service struct {
	accountRepository AccountRepository
	loginThrottle     LoginThrottle
	tokenCodec        TokenCodec
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(accountRepo AccountRepository, throttle LoginThrottle, codec TokenCodec) *Service {
	return &Service{
		accountRepository: accountRepo,
		loginThrottle:     throttle,
		tokenCodec:        codec,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken string        `json:"access_token"`
	Identity    *sec.Identity `json:"user"`
}

/*
Login validates user credentials and issues a signed session token.

Description: Verifies identity, performs constant-time password comparison,
and returns a bearer token carrying the account snapshot.

Every credential failure (unknown email, wrong password) returns the exact
same Unauthorized error, so the endpoint never reveals whether an account
exists.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session token and identity
  - err: Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	email := normalize.Email(input.Email)

	// Cut off brute-force runs before touching the credential store.
	// A throttle backend failure fails open: login availability outranks
	// the brute-force counter.
	blocked, err := service.loginThrottle.TooManyAttempts(context, email)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable",
			slog.String("error", err.Error()),
		)
	} else if blocked {
		return nil, apperr.RateLimited(int(constants.LoginAttemptWindow.Seconds()))
	}

	account, err := service.accountRepository.FindByEmail(context, email)

	// If (err != nil) the account does not exist. Generic message to prevent enumeration.
	if err != nil {
		_ = service.loginThrottle.RecordFailure(context, email, constants.LoginAttemptWindow)
		return nil, apperr.Unauthorized(constants.MsgInvalidCredentials)
	}

	// Verify password hash using bcrypt's constant-time comparison
	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		_ = service.loginThrottle.RecordFailure(context, email, constants.LoginAttemptWindow)
		return nil, apperr.Unauthorized(constants.MsgInvalidCredentials)
	}

	// Generate the signed access token with the account snapshot
	accessToken, err := service.tokenCodec.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	// Successful login clears the failure counter
	_ = service.loginThrottle.Reset(context, email)

	return &LoginSession{
		AccessToken: accessToken,
		Identity:    account.Identity(),
	}, nil
}

// # Session Resolution

/*
ResolveSession turns a bearer token into a live identity.

Description: Verifies the token signature and expiry, then re-fetches the
account from storage. The database row is authoritative: a deleted account
kills the session even if its token has not expired, and a changed role takes
effect immediately rather than at token expiry.

Parameters:
  - context: context.Context
  - tokenString: string

Returns:
  - *sec.Identity: Current account identity
  - err: Unauthorized on any verification or lookup failure
*/
func (service *Service) ResolveSession(context context.Context, tokenString string) (*sec.Identity, error) {
	claims, err := service.tokenCodec.Verify(tokenString)

	// Expired, tampered, and malformed tokens all collapse into one response
	if err != nil {
		return nil, apperr.Unauthorized(constants.MsgInvalidSession)
	}

	account, err := service.accountRepository.FindByID(context, claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized(constants.MsgInvalidSession)
	}

	return account.Identity(), nil
}

/*
Profile returns the fresh identity for an already-resolved session.

Description: Reads the account straight from storage rather than echoing the
request identity, so the response reflects any profile change made since the
session was resolved.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *sec.Identity: Current account identity
  - err: NotFound or storage failures
*/
func (service *Service) Profile(context context.Context, accountID string) (*sec.Identity, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}

	return account.Identity(), nil
}

// # Account Provisioning

// CreateAccountInput holds the data required to provision a new account.
type CreateAccountInput struct {
	Email    string
	Password string
	Name     string
	Role     perm.Role
}

/*
CreateAccount provisions a new account with a hashed credential.

Description: Admin-only enrollment path. The caller's authorization is
enforced at the transport layer; this method only guards input integrity.

Parameters:
  - context: context.Context
  - input: CreateAccountInput

Returns:
  - *Account: Created entity (hash never serialized)
  - err: Conflict (if email exists), ValidationError, or storage errors
*/
func (service *Service) CreateAccount(context context.Context, input CreateAccountInput) (*Account, error) {
	if !input.Role.Valid() {
		return nil, apperr.ValidationError("Unknown role", apperr.FieldError{
			Field:   FieldRole,
			Message: "must be ADMIN or USER",
		})
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// against CPU utilization during enrollment bursts.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation
	currentTime := time.Now()
	account := &Account{
		ID:           uuid.New(),
		Email:        normalize.Email(input.Email),
		PasswordHash: hashedPassword,
		Name:         normalize.Name(input.Name),
		Role:         input.Role,
		CreatedAt:    currentTime,
		UpdatedAt:    currentTime,
	}

	// Persist the account; duplicate emails surface as Conflict
	if err := service.accountRepository.Create(context, account); err != nil {
		return nil, err
	}

	return account, nil
}
