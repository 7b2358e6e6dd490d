package models

import "time"

// ConcernUrgency grades how quickly a submission needs attention.
type ConcernUrgency string

const (
	ConcernUrgencyLow    ConcernUrgency = "low"
	ConcernUrgencyMedium ConcernUrgency = "medium"
	ConcernUrgencyHigh   ConcernUrgency = "high"
)

// ConcernUrgencies lists the accepted urgency values.
var ConcernUrgencies = []ConcernUrgency{ConcernUrgencyLow, ConcernUrgencyMedium, ConcernUrgencyHigh}

// Concern is a counselling request submitted by a student.
type Concern struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	StudentID string         `db:"student_id" json:"student_id"`
	Concern   string         `db:"concern" json:"concern"`
	Urgency   ConcernUrgency `db:"urgency" json:"urgency"`
	Details   *string        `db:"details" json:"details,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ConcernFilter captures listing criteria for concerns.
type ConcernFilter struct {
	Urgency  string
	Page     int
	PageSize int
}

// ConcernStats counts submissions per urgency level.
type ConcernStats struct {
	Total  int `json:"total"`
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}
