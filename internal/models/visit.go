package models

import "time"

// Valid visit purposes accepted by the booking form.
var VisitPurposes = []string{
	"prospective-student",
	"educational-partner",
	"research",
	"community-partner",
	"other",
}

// Visit is a scheduled campus visit booking.
type Visit struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	Phone            string    `db:"phone" json:"phone"`
	Organization     string    `db:"organization" json:"organization"`
	VisitDate        time.Time `db:"visit_date" json:"visit_date"`
	NumberOfVisitors int       `db:"number_of_visitors" json:"number_of_visitors"`
	Purpose          string    `db:"purpose" json:"purpose"`
	Message          *string   `db:"message" json:"message,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// VisitFilter captures listing criteria for bookings.
type VisitFilter struct {
	Purpose  string
	FromDate *time.Time
	Page     int
	PageSize int
}
