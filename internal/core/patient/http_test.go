// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package patient_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/medira/internal/core/patient"
	"github.com/taibuivan/medira/internal/platform/apperr"
	"github.com/taibuivan/medira/internal/platform/constants"
	"github.com/taibuivan/medira/internal/platform/middleware"
	"github.com/taibuivan/medira/internal/platform/perm"
	"github.com/taibuivan/medira/internal/platform/sec"
)

// tokenResolver maps fixed test tokens to identities.
type tokenResolver struct{}

func (tokenResolver) ResolveSession(_ context.Context, token string) (*sec.Identity, error) {
	switch token {
	case "admin-token":
		return &sec.Identity{ID: "a1", Email: "admin@email.com", Role: perm.RoleAdmin}, nil
	case "user-token":
		return &sec.Identity{ID: "u1", Email: "user@email.com", Role: perm.RoleUser}, nil
	default:
		return nil, apperr.Unauthorized(constants.MsgInvalidSession)
	}
}

// newTestServer mounts the patient routes behind the real middleware chain.
func newTestServer() http.Handler {
	service := patient.NewService(&fakeRepository{})
	handler := patient.NewHandler(service)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenResolver{}))
	router.Mount("/api/v1/patients", handler.Routes())
	return router
}

func doJSON(t *testing.T, server http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	return recorder
}

func createPayload() map[string]string {
	return map[string]string{
		"first_name":    "John",
		"last_name":     "Doe",
		"email":         "john.doe@example.com",
		"phone_number":  "+1 555 010 0001",
		"date_of_birth": "1985-03-14",
	}
}

/*
TestPatients_AdminFullLifecycle walks an admin through create, list, view,
update, and delete over HTTP.
*/
func TestPatients_AdminFullLifecycle(t *testing.T) {
	server := newTestServer()

	// Create
	recorder := doJSON(t, server, http.MethodPost, "/api/v1/patients", "admin-token", createPayload())
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data patient.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	// List
	recorder = doJSON(t, server, http.MethodGet, "/api/v1/patients", "admin-token", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var listed struct {
		Data []patient.Patient `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)
	assert.Equal(t, 1, listed.Meta.Total)

	// View
	recorder = doJSON(t, server, http.MethodGet, "/api/v1/patients/"+created.Data.ID, "admin-token", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	// Update
	recorder = doJSON(t, server, http.MethodPatch, "/api/v1/patients/"+created.Data.ID, "admin-token",
		map[string]string{"phone_number": "+81 90 1234 5678"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var updated struct {
		Data patient.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))
	assert.Equal(t, "+81 90 1234 5678", updated.Data.PhoneNumber)
	assert.Equal(t, "John", updated.Data.FirstName)

	// Delete
	recorder = doJSON(t, server, http.MethodDelete, "/api/v1/patients/"+created.Data.ID, "admin-token", nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	// Gone
	recorder = doJSON(t, server, http.MethodGet, "/api/v1/patients/"+created.Data.ID, "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestPatients_UserReadOnly verifies that the standard role can read but every
write is forbidden with a 403, not a 401.
*/
func TestPatients_UserReadOnly(t *testing.T) {
	server := newTestServer()

	// Seed one record as admin
	recorder := doJSON(t, server, http.MethodPost, "/api/v1/patients", "admin-token", createPayload())
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data patient.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	// Reads allowed
	recorder = doJSON(t, server, http.MethodGet, "/api/v1/patients", "user-token", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodGet, "/api/v1/patients/"+created.Data.ID, "user-token", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Writes forbidden
	writes := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/v1/patients", createPayload()},
		{http.MethodPatch, "/api/v1/patients/" + created.Data.ID, map[string]string{"first_name": "Hacked"}},
		{http.MethodDelete, "/api/v1/patients/" + created.Data.ID, nil},
	}

	for _, write := range writes {
		recorder = doJSON(t, server, write.method, write.path, "user-token", write.body)
		assert.Equal(t, http.StatusForbidden, recorder.Code, "%s %s", write.method, write.path)

		var envelope struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "FORBIDDEN", envelope.Code)
	}

	// The record survived every attempt
	recorder = doJSON(t, server, http.MethodGet, "/api/v1/patients/"+created.Data.ID, "admin-token", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestPatients_Anonymous verifies that every patient route rejects requests
without a session as 401, never 403.
*/
func TestPatients_Anonymous(t *testing.T) {
	server := newTestServer()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/patients"},
		{http.MethodPost, "/api/v1/patients"},
		{http.MethodGet, "/api/v1/patients/some-id"},
		{http.MethodPatch, "/api/v1/patients/some-id"},
		{http.MethodDelete, "/api/v1/patients/some-id"},
	}

	for _, route := range routes {
		recorder := doJSON(t, server, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, "%s %s", route.method, route.path)
	}
}

/*
TestPatients_ExpiredToken verifies that a token the resolver rejects yields
401 with the uniform session message.
*/
func TestPatients_ExpiredToken(t *testing.T) {
	server := newTestServer()

	recorder := doJSON(t, server, http.MethodGet, "/api/v1/patients", "stale-token", nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, constants.MsgInvalidSession, envelope.Error)
}

/*
TestPatients_ValidationEnvelope verifies the field-level error details in
the envelope for a bad create.
*/
func TestPatients_ValidationEnvelope(t *testing.T) {
	server := newTestServer()

	payload := createPayload()
	payload["email"] = "not-an-email"
	payload["date_of_birth"] = "tomorrow"

	recorder := doJSON(t, server, http.MethodPost, "/api/v1/patients", "admin-token", payload)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
	fields := map[string]bool{}
	for _, detail := range envelope.Details {
		fields[detail.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["date_of_birth"])
}
