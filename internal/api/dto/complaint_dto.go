package dto

import (
	"time"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
)

// SubmitComplaintRequest payload. IncidentDate is YYYY-MM-DD.
type SubmitComplaintRequest struct {
	StudentID    string `json:"student_id"`
	BusRoute     string `json:"bus_route"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	IncidentDate string `json:"incident_date"`
}

// CheckDuplicateRequest payload for the pre-submission hint endpoint.
type CheckDuplicateRequest struct {
	BusRoute     string `json:"bus_route"`
	Description  string `json:"description"`
	IncidentDate string `json:"incident_date"`
}

// UpdateStatusRequest payload for admin transitions.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// ComplaintResponse is the wire view of a complaint.
type ComplaintResponse struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"user_id"`
	StudentID    string                 `json:"student_id"`
	BusRoute     string                 `json:"bus_route"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Location     string                 `json:"location"`
	Status       domain.ComplaintStatus `json:"status"`
	IncidentDate string                 `json:"incident_date"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// FromComplaint maps a domain complaint to its wire view.
func FromComplaint(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:           c.ID,
		UserID:       c.UserID,
		StudentID:    c.StudentID,
		BusRoute:     c.BusRoute,
		Title:        c.Title,
		Description:  c.Description,
		Location:     c.Location,
		Status:       c.Status,
		IncidentDate: c.IncidentDate.Format("2006-01-02"),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromComplaints maps a slice of complaints.
func FromComplaints(list []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(list))
	for i := range list {
		out = append(out, FromComplaint(&list[i]))
	}
	return out
}
