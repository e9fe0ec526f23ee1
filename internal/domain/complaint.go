package domain

import "time"

// ComplaintStatus is deliberately an open string: administrators may set any
// non-empty status. The constants below cover the values the system itself
// assigns or aggregates on.
type ComplaintStatus string

const (
	ComplaintStatusPending  ComplaintStatus = "pending"
	ComplaintStatusInReview ComplaintStatus = "in_review"
	ComplaintStatusResolved ComplaintStatus = "resolved"
	ComplaintStatusRejected ComplaintStatus = "rejected"
)

// Complaint is an incident report filed by a student against a bus route.
// IncidentDate carries the calendar day only; it is stored at midnight.
type Complaint struct {
	ID           string
	UserID       string
	StudentID    string
	BusRoute     string
	Title        string
	Description  string
	Location     string
	Status       ComplaintStatus
	IncidentDate time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
