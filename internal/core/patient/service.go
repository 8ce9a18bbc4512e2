// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package patient implements the patient registry at the heart of Medira.

It manages the demographic and contact records clinicians work against every
day: enrollment, lookup, correction, and removal.

Architecture:

  - Service: Validates and normalizes input before touching storage.
  - Repository: Abstracted interface over Postgres.
  - Authorization: Enforced entirely at the transport layer; the service
    assumes the caller was already cleared for the operation.
*/
package patient

import (
	"context"
	"time"

	"github.com/taibuivan/medira/internal/platform/validate"
	"github.com/taibuivan/medira/pkg/normalize"
	"github.com/taibuivan/medira/pkg/pagination"
	"github.com/taibuivan/medira/pkg/uuid"
)

// # Validation Field Names

const (
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldEmail          = "email"
	FieldPhoneNumber    = "phone_number"
	FieldDateOfBirth    = "date_of_birth"
	FieldAdditionalInfo = "additional_information"
	FieldPatientID      = "patient_id"
)

// # Input Limits

const (
	// MaxNameLength bounds the first and last name columns.
	MaxNameLength = 100

	// MaxAdditionalInfoLength bounds the free-form notes column.
	MaxAdditionalInfoLength = 4000
)

// # Service

// Service implements patient registry use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new patient [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// ListResult bundles one page of patients with its pagination metadata.
type ListResult struct {
	Patients []Patient
	Meta     pagination.Meta
}

/*
List returns a filtered, paginated page of the registry.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - filter: ListFilter

Returns:
  - *ListResult: Page of patients plus metadata
  - err: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params, filter ListFilter) (*ListResult, error) {
	patients, total, err := service.repository.List(context, params, filter)
	if err != nil {
		return nil, err
	}

	// Never serialize null for an empty page
	if patients == nil {
		patients = []Patient{}
	}

	return &ListResult{
		Patients: patients,
		Meta:     pagination.NewMeta(params.Page, params.Limit, total),
	}, nil
}

/*
Get retrieves a single patient by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Patient: Hydrated entity
  - err: ValidationError on a malformed ID, NotFound, or storage failures
*/
func (service *Service) Get(context context.Context, id string) (*Patient, error) {
	validator := &validate.Validator{}
	if err := validator.UUID(FieldPatientID, id).Err(); err != nil {
		return nil, err
	}

	return service.repository.FindByID(context, id)
}

// # Enrollment

// CreateInput holds the data required to enroll a new patient.
type CreateInput struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	DateOfBirth    string // YYYY-MM-DD
	AdditionalInfo string
}

/*
Create validates, normalizes, and persists a new patient record.

Description: Names are NFC-normalized and emails canonicalized before
storage, so later lookups and uniqueness checks never depend on how the
client composed the input.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Patient: Created entity
  - err: ValidationError, Conflict (duplicate email), or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Patient, error) {
	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, MaxNameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPhoneNumber, input.PhoneNumber).
		Phone(FieldPhoneNumber, input.PhoneNumber).
		Required(FieldDateOfBirth, input.DateOfBirth).
		Date(FieldDateOfBirth, input.DateOfBirth).
		MaxLen(FieldAdditionalInfo, input.AdditionalInfo, MaxAdditionalInfoLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	dateOfBirth, err := time.Parse(validate.DateLayout, input.DateOfBirth)
	if err != nil {
		return nil, validate.RequiredError(FieldDateOfBirth, "Must be a valid date (YYYY-MM-DD)")
	}

	// Time-sortable ID to prevent PG index fragmentation
	currentTime := time.Now()
	record := &Patient{
		ID:             uuid.New(),
		FirstName:      normalize.Name(input.FirstName),
		LastName:       normalize.Name(input.LastName),
		Email:          normalize.Email(input.Email),
		PhoneNumber:    normalize.Name(input.PhoneNumber),
		DateOfBirth:    dateOfBirth,
		AdditionalInfo: normalize.Name(input.AdditionalInfo),
		CreatedAt:      currentTime,
		UpdatedAt:      currentTime,
	}

	if err := service.repository.Create(context, record); err != nil {
		return nil, err
	}

	return record, nil
}

// # Corrections

// UpdateInput holds a partial patch for an existing patient.
//
// Nil pointers mean "leave unchanged"; present pointers replace the field
// after the same validation and normalization as enrollment.
type UpdateInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	DateOfBirth    *string // YYYY-MM-DD
	AdditionalInfo *string
}

/*
Update merges a partial patch into an existing patient record.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Patient: Updated entity
  - err: ValidationError, NotFound, Conflict (duplicate email), or storage errors
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Patient, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldPatientID, id)

	if input.FirstName != nil {
		validator.Required(FieldFirstName, *input.FirstName).
			MaxLen(FieldFirstName, *input.FirstName, MaxNameLength)
	}
	if input.LastName != nil {
		validator.Required(FieldLastName, *input.LastName).
			MaxLen(FieldLastName, *input.LastName, MaxNameLength)
	}
	if input.Email != nil {
		validator.Required(FieldEmail, *input.Email).
			Email(FieldEmail, *input.Email)
	}
	if input.PhoneNumber != nil {
		validator.Required(FieldPhoneNumber, *input.PhoneNumber).
			Phone(FieldPhoneNumber, *input.PhoneNumber)
	}
	if input.DateOfBirth != nil {
		validator.Required(FieldDateOfBirth, *input.DateOfBirth).
			Date(FieldDateOfBirth, *input.DateOfBirth)
	}
	if input.AdditionalInfo != nil {
		validator.MaxLen(FieldAdditionalInfo, *input.AdditionalInfo, MaxAdditionalInfoLength)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	record, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Merge the patch into the stored entity
	if input.FirstName != nil {
		record.FirstName = normalize.Name(*input.FirstName)
	}
	if input.LastName != nil {
		record.LastName = normalize.Name(*input.LastName)
	}
	if input.Email != nil {
		record.Email = normalize.Email(*input.Email)
	}
	if input.PhoneNumber != nil {
		record.PhoneNumber = normalize.Name(*input.PhoneNumber)
	}
	if input.DateOfBirth != nil {
		dateOfBirth, err := time.Parse(validate.DateLayout, *input.DateOfBirth)
		if err != nil {
			return nil, validate.RequiredError(FieldDateOfBirth, "Must be a valid date (YYYY-MM-DD)")
		}
		record.DateOfBirth = dateOfBirth
	}
	if input.AdditionalInfo != nil {
		record.AdditionalInfo = normalize.Name(*input.AdditionalInfo)
	}

	record.UpdatedAt = time.Now()

	if err := service.repository.Update(context, record); err != nil {
		return nil, err
	}

	return record, nil
}

/*
Delete permanently removes a patient record.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - err: ValidationError on a malformed ID, NotFound, or storage failures
*/
func (service *Service) Delete(context context.Context, id string) error {
	validator := &validate.Validator{}
	if err := validator.UUID(FieldPatientID, id).Err(); err != nil {
		return err
	}

	return service.repository.Delete(context, id)
}
