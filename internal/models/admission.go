package models

import "time"

// AdmissionStatus tracks how an application moves through review.
type AdmissionStatus string

const (
	AdmissionStatusPending  AdmissionStatus = "pending"
	AdmissionStatusAccepted AdmissionStatus = "accepted"
	AdmissionStatusRejected AdmissionStatus = "rejected"
)

// Admission is a submitted application for enrollment.
type Admission struct {
	ID              string          `db:"id" json:"id"`
	FirstName       string          `db:"first_name" json:"first_name"`
	LastName        string          `db:"last_name" json:"last_name"`
	GrandParentName string          `db:"grand_parent_name" json:"grand_parent_name"`
	Gender          string          `db:"gender" json:"gender"`
	DateOfBirth     time.Time       `db:"date_of_birth" json:"date_of_birth"`
	Age             int             `db:"age" json:"age"`
	Nationality     string          `db:"nationality" json:"nationality"`
	FanNumber       string          `db:"fan_number" json:"fan_number"`
	Program         string          `db:"program" json:"program"`
	Field           string          `db:"field" json:"field"`
	Email           *string         `db:"email" json:"email,omitempty"`
	Phone           *string         `db:"phone" json:"phone,omitempty"`
	GuardianName    *string         `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianPhone   *string         `db:"guardian_phone" json:"guardian_phone,omitempty"`
	Status          AdmissionStatus `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// AdmissionFilter captures listing criteria for applications.
type AdmissionFilter struct {
	Status   *AdmissionStatus
	Program  string
	Search   string
	Page     int
	PageSize int
}
