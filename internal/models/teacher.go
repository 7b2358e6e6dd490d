package models

import "time"

// TeacherStatus marks whether a staff record is active.
type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "active"
	TeacherStatusInactive TeacherStatus = "inactive"
)

// Teacher is a staff directory record.
type Teacher struct {
	ID             string        `db:"id" json:"id"`
	FullName       string        `db:"full_name" json:"full_name"`
	Email          string        `db:"email" json:"email"`
	Phone          *string       `db:"phone" json:"phone,omitempty"`
	Gender         *string       `db:"gender" json:"gender,omitempty"`
	Address        *string       `db:"address" json:"address,omitempty"`
	ProfileImage   *string       `db:"profile_image" json:"profile_image,omitempty"`
	EmployeeID     *string       `db:"employee_id" json:"employee_id,omitempty"`
	Department     *string       `db:"department" json:"department,omitempty"`
	Position       *string       `db:"position" json:"position,omitempty"`
	JoiningDate    *time.Time    `db:"joining_date" json:"joining_date,omitempty"`
	Subjects       *string       `db:"subjects" json:"subjects,omitempty"`
	HighestDegree  *string       `db:"highest_degree" json:"highest_degree,omitempty"`
	University     *string       `db:"university" json:"university,omitempty"`
	Specialization *string       `db:"specialization" json:"specialization,omitempty"`
	Status         TeacherStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures listing criteria for the staff directory.
type TeacherFilter struct {
	Search     string
	Status     *TeacherStatus
	Department string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
