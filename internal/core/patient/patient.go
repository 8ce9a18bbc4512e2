// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package patient

import "time"

// # Entities

// Patient is the master record for a person under care.
//
// Email is unique across the whole registry so a patient cannot be enrolled
// twice with the same address. AdditionalInfo is free-form clinical or
// administrative notes and may be empty.
type Patient struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	AdditionalInfo string    `json:"additional_information"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName returns the display name used in lists and logs.
func (patient *Patient) FullName() string {
	return patient.FirstName + " " + patient.LastName
}
