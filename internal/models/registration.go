package models

import "time"

// Enumerations accepted by the program registration form.
var (
	RegistrationGrades = []string{"9th Grade", "10th Grade", "11th Grade", "12th Grade"}

	RegistrationRoles = []string{
		"Student", "Mentor", "Instructor", "Program Coordinator", "Volunteer", "Guest Speaker",
	}

	RegistrationPrograms = []string{
		"STEM Program", "Leadership Program", "Technology and Innovation",
		"Arts and Humanities", "Cultural Day", "Mini Media",
	}
)

// Registration is an academic program registration.
type Registration struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Day       time.Time `db:"day" json:"day"`
	Grade     string    `db:"grade" json:"grade"`
	Role      string    `db:"role" json:"role"`
	Program   string    `db:"program" json:"program"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RegistrationFilter captures listing criteria for registrations.
type RegistrationFilter struct {
	Program  string
	Grade    string
	Page     int
	PageSize int
}
