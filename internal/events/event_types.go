package events

import (
	"time"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered            EventType = "user_registered"
	EventComplaintSubmitted        EventType = "complaint_submitted"
	EventComplaintDuplicateBlocked EventType = "complaint_duplicate_blocked"
	EventComplaintStatusChanged    EventType = "complaint_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID      string      `json:"user_id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	WelcomeSent bool        `json:"welcome_sent"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	ComplaintID      string    `json:"complaint_id"`
	BusRoute         string    `json:"bus_route"`
	Title            string    `json:"title"`
	IncidentDate     time.Time `json:"incident_date"`
	NotificationSent bool      `json:"notification_sent"`
}

// ComplaintDuplicateBlockedPayload payload.
type ComplaintDuplicateBlockedPayload struct {
	BusRoute     string    `json:"bus_route"`
	IncidentDate time.Time `json:"incident_date"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	ComplaintID      string                 `json:"complaint_id"`
	NewStatus        domain.ComplaintStatus `json:"new_status"`
	NotificationSent bool                   `json:"notification_sent"`
}
