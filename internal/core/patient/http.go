// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package patient provides the HTTP delivery layer for the patient registry.

# Architecture

Every route is wrapped in a permission guard. The guard returns 401 for
anonymous callers and 403 for authenticated callers whose role lacks the
required permission; handlers therefore never re-check authorization.
*/
package patient

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/medira/internal/platform/middleware"
	"github.com/taibuivan/medira/internal/platform/perm"
	requestutil "github.com/taibuivan/medira/internal/platform/request"
	"github.com/taibuivan/medira/internal/platform/respond"
	"github.com/taibuivan/medira/internal/platform/validate"
	"github.com/taibuivan/medira/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements patient registry HTTP endpoints.
type Handler struct {
	patientService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{patientService: service}
}

// Routes returns a [chi.Router] with one permission guard per operation.
//
// # Endpoints
//   - GET    /              : List patients (patient:list)
//   - POST   /              : Enroll a patient (patient:create)
//   - GET    /{patientID}   : View one patient (patient:view)
//   - PATCH  /{patientID}   : Correct a patient (patient:update)
//   - DELETE /{patientID}   : Remove a patient (patient:delete)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequirePermission(perm.PatientList)).Get("/", handler.list)
	router.With(middleware.RequirePermission(perm.PatientCreate)).Post("/", handler.create)
	router.With(middleware.RequirePermission(perm.PatientView)).Get("/{patientID}", handler.get)
	router.With(middleware.RequirePermission(perm.PatientUpdate)).Patch("/{patientID}", handler.update)
	router.With(middleware.RequirePermission(perm.PatientDelete)).Delete("/{patientID}", handler.delete)

	return router
}

// # Request Payloads

type createPatientRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	DateOfBirth    string `json:"date_of_birth"`
	AdditionalInfo string `json:"additional_information"`
}

type updatePatientRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	PhoneNumber    *string `json:"phone_number"`
	DateOfBirth    *string `json:"date_of_birth"`
	AdditionalInfo *string `json:"additional_information"`
}

/*
List returns a paginated page of the registry.

GET /api/v1/patients?page=1&limit=25&search=smith

Response:
  - 200: []Patient with pagination metadata
  - 401: ErrUnauthorized / 403: ErrForbidden (guard)
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := ListFilter{Search: request.URL.Query().Get("search")}

	result, err := handler.patientService.List(request.Context(), params, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Patients, result.Meta)
}

/*
Get returns a single patient.

GET /api/v1/patients/{patientID}

Response:
  - 200: Patient
  - 404: ErrNotFound: Unknown ID
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "patientID")

	record, err := handler.patientService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
Create enrolls a new patient.

POST /api/v1/patients

Request:
  - Body: createPatientRequest

Response:
  - 201: Patient: Created record
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already enrolled
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createPatientRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	record, err := handler.patientService.Create(request.Context(), CreateInput{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		DateOfBirth:    input.DateOfBirth,
		AdditionalInfo: input.AdditionalInfo,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
Update applies a partial correction to a patient record.

PATCH /api/v1/patients/{patientID}

Request:
  - Body: updatePatientRequest (absent fields stay unchanged)

Response:
  - 200: Patient: Updated record
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 404: ErrNotFound: Unknown ID
  - 409: ErrConflict: Email already enrolled
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "patientID")

	var input updatePatientRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	record, err := handler.patientService.Update(request.Context(), id, UpdateInput{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		DateOfBirth:    input.DateOfBirth,
		AdditionalInfo: input.AdditionalInfo,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
Delete permanently removes a patient record.

DELETE /api/v1/patients/{patientID}

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown ID
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "patientID")

	if err := handler.patientService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
