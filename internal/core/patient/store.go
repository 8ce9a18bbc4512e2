// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package patient

import (
	"context"

	"github.com/taibuivan/medira/pkg/pagination"
)

// # Storage Contracts

// ListFilter narrows a paginated patient listing.
type ListFilter struct {
	// Search matches case-insensitively against first name, last name, and email.
	Search string
}

// Repository abstracts persistence for patient records.
type Repository interface {
	// List returns one page of patients ordered by creation time (newest
	// first) together with the total row count for the filter.
	List(ctx context.Context, params pagination.Params, filter ListFilter) ([]Patient, int, error)

	// FindByID retrieves a patient by primary key.
	FindByID(ctx context.Context, id string) (*Patient, error)

	// Create persists a brand new patient row.
	Create(ctx context.Context, patient *Patient) error

	// Update rewrites the mutable fields of an existing patient row.
	Update(ctx context.Context, patient *Patient) error

	// Delete permanently removes a patient row.
	Delete(ctx context.Context, id string) error
}
