package schema

// PatientTable represents the 'core.patient' table
type PatientTable struct {
	Table          string
	ID             string
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	DateOfBirth    string
	AdditionalInfo string
	CreatedAt      string
	UpdatedAt      string
}

// Patient is the schema definition for core.patient
var Patient = PatientTable{
	Table:          "core.patient",
	ID:             "id",
	FirstName:      "firstname",
	LastName:       "lastname",
	Email:          "email",
	PhoneNumber:    "phonenumber",
	DateOfBirth:    "dateofbirth",
	AdditionalInfo: "additionalinfo",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t PatientTable) Columns() []string {
	return []string{
		t.ID, t.FirstName, t.LastName, t.Email, t.PhoneNumber,
		t.DateOfBirth, t.AdditionalInfo, t.CreatedAt, t.UpdatedAt,
	}
}
