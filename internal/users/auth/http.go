// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for identity management.

It implements the gateway for the authentication lifecycle: login, session
introspection, and admin-side account provisioning.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Bearer token orchestration; no cookies, no server-side session state.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/medira/internal/platform/middleware"
	"github.com/taibuivan/medira/internal/platform/perm"
	requestutil "github.com/taibuivan/medira/internal/platform/request"
	"github.com/taibuivan/medira/internal/platform/respond"
	"github.com/taibuivan/medira/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /login    : Authenticates and returns a signed bearer token.
//   - GET  /profile  : Returns the caller's fresh identity.
//   - POST /accounts : Provisions a new account (requires account:create).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/profile", handler.profile)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(perm.AccountCreate))
		r.Post("/accounts", handler.createAccount)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and returns a signed bearer token alongside
the identity snapshot.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: LoginSession: Access token and identity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: Invalid credentials (uniform message)
  - 429: ErrRateLimited: Too many failed attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Profile returns the caller's current identity.

GET /api/v1/auth/profile

Description: Re-fetches the account from storage so the response reflects the
current role and profile, not the snapshot baked into the token.

Response:
  - 200: sec.Identity
  - 401: ErrUnauthorized: No valid session
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fresh, err := handler.authService.Profile(request.Context(), identity.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, fresh)
}

/*
CreateAccount provisions a new account.

POST /api/v1/auth/accounts

Description: Admin-only enrollment. The route guard enforces the
account:create permission before this handler runs.

Request:
  - Body: createAccountRequest (Email, Password, Name, Role)

Response:
  - 201: Account: Created account (hash never serialized)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: ErrForbidden: Caller lacks account:create
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) createAccount(writer http.ResponseWriter, request *http.Request) {
	var input createAccountRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldRole, input.Role).
		OneOf(FieldRole, input.Role, string(perm.RoleAdmin), string(perm.RoleUser))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.CreateAccount(request.Context(), CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Role:     perm.Role(input.Role),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}
