// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package patient (Postgres) implements the storage layer for patient records.

# Schema Table Mapping
  - core.patient: Master demographic and contact data for persons under care.
*/
package patient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/medira/internal/platform/apperr"
	"github.com/taibuivan/medira/internal/platform/database/schema"
	"github.com/taibuivan/medira/internal/platform/dberr"
	"github.com/taibuivan/medira/pkg/pagination"
)

// # Repository Implementations

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for patient storage.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns one page of patients plus the total count for the filter.

Description: Ordering is by the time-sortable primary key descending, which
is equivalent to newest-first without touching the timestamp column.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - filter: ListFilter

Returns:
  - []Patient: One page of records
  - int: Total matching rows across all pages
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params, filter ListFilter) ([]Patient, int, error) {
	whereClause := ""
	args := []interface{}{}

	if filter.Search != "" {
		whereClause = fmt.Sprintf(`WHERE %s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1`,
			schema.Patient.FirstName, schema.Patient.LastName, schema.Patient.Email)
		args = append(args, "%"+filter.Search+"%")
	}

	// Total count first so pagination metadata stays consistent with the page
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.Patient.Table, whereClause)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap("patient_repo_count", "Patient", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		%s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d`,
		schema.Patient.ID, schema.Patient.FirstName, schema.Patient.LastName,
		schema.Patient.Email, schema.Patient.PhoneNumber, schema.Patient.DateOfBirth,
		schema.Patient.AdditionalInfo, schema.Patient.CreatedAt, schema.Patient.UpdatedAt,
		schema.Patient.Table,
		whereClause,
		schema.Patient.ID,
		len(args)+1, len(args)+2,
	)

	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap("patient_repo_list", "Patient", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		var record Patient
		if err := rows.Scan(
			&record.ID,
			&record.FirstName,
			&record.LastName,
			&record.Email,
			&record.PhoneNumber,
			&record.DateOfBirth,
			&record.AdditionalInfo,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap("patient_repo_scan", "Patient", err)
		}
		patients = append(patients, record)
	}

	return patients, total, nil
}

/*
FindByID retrieves a patient record by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Patient: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Patient, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.Patient.ID, schema.Patient.FirstName, schema.Patient.LastName,
		schema.Patient.Email, schema.Patient.PhoneNumber, schema.Patient.DateOfBirth,
		schema.Patient.AdditionalInfo, schema.Patient.CreatedAt, schema.Patient.UpdatedAt,
		schema.Patient.Table,
		schema.Patient.ID,
	)

	record := &Patient{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&record.ID,
		&record.FirstName,
		&record.LastName,
		&record.Email,
		&record.PhoneNumber,
		&record.DateOfBirth,
		&record.AdditionalInfo,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap("patient_repo_find_by_id", "Patient", err)
	}

	return record, nil
}

/*
Create persists a brand new patient row.

Parameters:
  - context: context.Context
  - patient: *Patient

Returns:
  - error: apperr.Conflict on duplicate email, or execution failures
*/
func (repository *PostgresRepository) Create(context context.Context, patient *Patient) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.Patient.Table,
		schema.Patient.ID, schema.Patient.FirstName, schema.Patient.LastName,
		schema.Patient.Email, schema.Patient.PhoneNumber, schema.Patient.DateOfBirth,
		schema.Patient.AdditionalInfo, schema.Patient.CreatedAt, schema.Patient.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		patient.ID,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.PhoneNumber,
		patient.DateOfBirth,
		patient.AdditionalInfo,
		patient.CreatedAt,
		patient.UpdatedAt,
	)

	// If the insert fails, map constraint violations to client-safe errors
	if err != nil {
		return dberr.Wrap("patient_repo_create", "Patient", err)
	}

	return nil
}

/*
Update rewrites the mutable fields of an existing patient row.

Parameters:
  - context: context.Context
  - patient: *Patient (fully merged entity, not a partial)

Returns:
  - error: apperr.Conflict on duplicate email, or execution failures
*/
func (repository *PostgresRepository) Update(context context.Context, patient *Patient) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1`,
		schema.Patient.Table,
		schema.Patient.FirstName, schema.Patient.LastName, schema.Patient.Email,
		schema.Patient.PhoneNumber, schema.Patient.DateOfBirth, schema.Patient.AdditionalInfo,
		schema.Patient.UpdatedAt,
		schema.Patient.ID,
	)

	result, err := repository.pool.Exec(context, query,
		patient.ID,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.PhoneNumber,
		patient.DateOfBirth,
		patient.AdditionalInfo,
		patient.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap("patient_repo_update", "Patient", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Patient")
	}

	return nil
}

/*
Delete permanently removes a patient row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when the row does not exist, or execution failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Patient.Table, schema.Patient.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap("patient_repo_delete", "Patient", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Patient")
	}

	return nil
}
