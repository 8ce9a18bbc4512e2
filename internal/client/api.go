// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taibuivan/medira/internal/platform/constants"
	"github.com/taibuivan/medira/internal/platform/sec"
)

// # API Client

// APIError is a structured error decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (apiError *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", apiError.Code, apiError.StatusCode, apiError.Message)
}

// API is a thin HTTP client for the Medira server, bound to a [Session].
//
// Every response is unwrapped from the standard JSON envelope. A 401 from
// any endpoint transitions the session to expired, so the caller's next
// [Session.Current] reflects reality.
type API struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// NewAPI constructs an [API] client for the given server base URL.
func NewAPI(baseURL string, session *Session) *API {
	return &API{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		session: session,
	}
}

// # Authentication Calls

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	AccessToken string        `json:"access_token"`
	Identity    *sec.Identity `json:"user"`
}

// Login authenticates against the server and installs the session on success.
//
// On rejection the session returns to unauthenticated and the server's
// uniform error message is surfaced as an [*APIError].
func (api *API) Login(ctx context.Context, email, password string) (*sec.Identity, error) {
	api.session.BeginLogin()

	var data loginData
	err := api.do(ctx, http.MethodPost, "/api/v1/auth/login", loginPayload{
		Email:    email,
		Password: password,
	}, &data)

	if err != nil {
		api.session.FailLogin()
		return nil, err
	}

	// The expiry baked into the token is not re-parsed client-side; the
	// configured TTL is close enough for lazy local expiry checks.
	api.session.CompleteLogin(data.AccessToken, data.Identity, time.Now().Add(constants.AccessTokenTTL))

	return data.Identity, nil
}

// Profile fetches the caller's fresh identity from the server.
func (api *API) Profile(ctx context.Context) (*sec.Identity, error) {
	var identity sec.Identity
	if err := api.do(ctx, http.MethodGet, "/api/v1/auth/profile", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout clears the local session. Tokens are stateless server-side, so no
// network call is needed; the operation cannot fail.
func (api *API) Logout() {
	api.session.Logout()
}

// # Generic Calls

// Get performs an authenticated GET and decodes the envelope data into target.
func (api *API) Get(ctx context.Context, path string, target interface{}) error {
	return api.do(ctx, http.MethodGet, path, nil, target)
}

// GetRaw performs an authenticated GET and decodes the whole response body
// into target without unwrapping the envelope. Paginated endpoints carry a
// meta block next to data, so callers decode both.
func (api *API) GetRaw(ctx context.Context, path string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, api.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}

	if snapshot := api.session.Current(); snapshot.Authenticated() {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+snapshot.Token)
	}

	response, err := api.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("client: GET %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return api.decodeError(response)
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}

	return nil
}

// Post performs an authenticated POST and decodes the envelope data into target.
func (api *API) Post(ctx context.Context, path string, payload, target interface{}) error {
	return api.do(ctx, http.MethodPost, path, payload, target)
}

// Patch performs an authenticated PATCH and decodes the envelope data into target.
func (api *API) Patch(ctx context.Context, path string, payload, target interface{}) error {
	return api.do(ctx, http.MethodPatch, path, payload, target)
}

// Delete performs an authenticated DELETE. A 204 yields no decoded body.
func (api *API) Delete(ctx context.Context, path string) error {
	return api.do(ctx, http.MethodDelete, path, nil, nil)
}

// do executes one request: attach bearer token, send, unwrap envelope.
func (api *API) do(ctx context.Context, method, path string, payload, target interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, api.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	if snapshot := api.session.Current(); snapshot.Authenticated() {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+snapshot.Token)
	}

	response, err := api.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNoContent {
		return nil
	}

	if response.StatusCode >= 400 {
		return api.decodeError(response)
	}

	if target == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}

	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("client: decode data: %w", err)
	}

	return nil
}

// decodeError turns an error envelope into an [*APIError] and updates the
// session on authentication failures.
func (api *API) decodeError(response *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = json.NewDecoder(response.Body).Decode(&envelope)

	if envelope.Error == "" {
		envelope.Error = http.StatusText(response.StatusCode)
	}

	// A rejected token means the local session is dead
	if response.StatusCode == http.StatusUnauthorized && api.session.Current().Authenticated() {
		api.session.MarkExpired()
	}

	return &APIError{
		StatusCode: response.StatusCode,
		Code:       envelope.Code,
		Message:    envelope.Error,
	}
}
