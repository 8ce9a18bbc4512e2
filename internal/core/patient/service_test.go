// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package patient_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/medira/internal/core/patient"
	"github.com/taibuivan/medira/internal/platform/apperr"
	"github.com/taibuivan/medira/pkg/pagination"
)

// fakeRepository keeps patients in memory, insertion-ordered.
type fakeRepository struct {
	records []*patient.Patient
}

func (repo *fakeRepository) List(_ context.Context, params pagination.Params, filter patient.ListFilter) ([]patient.Patient, int, error) {
	var matched []patient.Patient
	needle := strings.ToLower(filter.Search)
	for _, record := range repo.records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(record.FirstName), needle) &&
			!strings.Contains(strings.ToLower(record.LastName), needle) &&
			!strings.Contains(strings.ToLower(record.Email), needle) {
			continue
		}
		matched = append(matched, *record)
	}

	total := len(matched)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*patient.Patient, error) {
	for _, record := range repo.records {
		if record.ID == id {
			clone := *record
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Patient")
}

func (repo *fakeRepository) Create(_ context.Context, record *patient.Patient) error {
	for _, existing := range repo.records {
		if existing.Email == record.Email {
			return apperr.Conflict("Patient already exists")
		}
	}
	repo.records = append(repo.records, record)
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, record *patient.Patient) error {
	for i, existing := range repo.records {
		if existing.ID == record.ID {
			repo.records[i] = record
			return nil
		}
	}
	return apperr.NotFound("Patient")
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	for i, existing := range repo.records {
		if existing.ID == id {
			repo.records = append(repo.records[:i], repo.records[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Patient")
}

func validCreateInput() patient.CreateInput {
	return patient.CreateInput{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john.doe@example.com",
		PhoneNumber: "+1 555 010 0001",
		DateOfBirth: "1985-03-14",
	}
}

/*
TestCreate_Success verifies enrollment with canonicalization of names and
email.
*/
func TestCreate_Success(t *testing.T) {
	service := patient.NewService(&fakeRepository{})

	input := validCreateInput()
	input.FirstName = "  John "
	input.Email = " John.Doe@Example.COM "

	record, err := service.Create(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "John", record.FirstName)
	assert.Equal(t, "john.doe@example.com", record.Email)
	assert.Equal(t, 1985, record.DateOfBirth.Year())
	assert.Equal(t, "John Doe", record.FullName())
}

/*
TestCreate_Validation verifies that each malformed field is reported with
its field name.
*/
func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*patient.CreateInput)
		wantField string
	}{
		{"missing_first_name", func(i *patient.CreateInput) { i.FirstName = "" }, "first_name"},
		{"missing_last_name", func(i *patient.CreateInput) { i.LastName = "" }, "last_name"},
		{"bad_email", func(i *patient.CreateInput) { i.Email = "not-an-email" }, "email"},
		{"bad_phone", func(i *patient.CreateInput) { i.PhoneNumber = "abc" }, "phone_number"},
		{"bad_date", func(i *patient.CreateInput) { i.DateOfBirth = "14/03/1985" }, "date_of_birth"},
	}

	service := patient.NewService(&fakeRepository{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)

			found := false
			for _, detail := range ae.Details {
				if detail.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected a detail for field %s, got %v", tt.wantField, ae.Details)
		})
	}
}

/*
TestCreate_DuplicateEmail verifies the uniqueness constraint surfaces as a
conflict.
*/
func TestCreate_DuplicateEmail(t *testing.T) {
	service := patient.NewService(&fakeRepository{})

	_, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = service.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestUpdate_PartialPatch verifies that absent fields survive a patch and
present fields are normalized.
*/
func TestUpdate_PartialPatch(t *testing.T) {
	repo := &fakeRepository{}
	service := patient.NewService(repo)

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	newPhone := "+81 90 1234 5678"
	updated, err := service.Update(context.Background(), created.ID, patient.UpdateInput{
		PhoneNumber: &newPhone,
	})
	require.NoError(t, err)

	assert.Equal(t, newPhone, updated.PhoneNumber)
	assert.Equal(t, created.FirstName, updated.FirstName, "unpatched field must not change")
	assert.Equal(t, created.Email, updated.Email)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

/*
TestUpdate_UnknownID verifies the not-found path.
*/
func TestUpdate_UnknownID(t *testing.T) {
	service := patient.NewService(&fakeRepository{})

	name := "Ghost"
	_, err := service.Update(context.Background(), "0190a000-0000-7000-8000-00000000dead", patient.UpdateInput{
		FirstName: &name,
	})

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestDelete verifies removal and the malformed-ID guard.
*/
func TestDelete(t *testing.T) {
	repo := &fakeRepository{}
	service := patient.NewService(repo)

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.records)

	// Second delete: gone
	err = service.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// Malformed ID never reaches the repository
	err = service.Delete(context.Background(), "nonsense")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestList verifies pagination metadata and search filtering.
*/
func TestList(t *testing.T) {
	repo := &fakeRepository{}
	service := patient.NewService(repo)

	inputs := []patient.CreateInput{
		{FirstName: "John", LastName: "Doe", Email: "john@example.com", PhoneNumber: "555-010-0001", DateOfBirth: "1985-03-14"},
		{FirstName: "Jane", LastName: "Miller", Email: "jane@example.com", PhoneNumber: "555-010-0002", DateOfBirth: "1992-11-02"},
		{FirstName: "Kenji", LastName: "Tanaka", Email: "kenji@example.com", PhoneNumber: "555-010-0003", DateOfBirth: "1978-07-29"},
	}
	for _, input := range inputs {
		_, err := service.Create(context.Background(), input)
		require.NoError(t, err)
	}

	result, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 2}, patient.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, result.Patients, 2)
	assert.Equal(t, 3, result.Meta.Total)
	assert.Equal(t, 2, result.Meta.TotalPages)

	result, err = service.List(context.Background(), pagination.Params{Page: 1, Limit: 25}, patient.ListFilter{Search: "tanaka"})
	require.NoError(t, err)
	require.Len(t, result.Patients, 1)
	assert.Equal(t, "Kenji", result.Patients[0].FirstName)

	// Empty page serializes as an empty slice, never null
	result, err = service.List(context.Background(), pagination.Params{Page: 1, Limit: 25}, patient.ListFilter{Search: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, result.Patients)
	assert.Empty(t, result.Patients)
}
