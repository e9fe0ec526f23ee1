package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
	"github.com/spec-kit/bus-complaint-service/internal/duplicate"
	"github.com/spec-kit/bus-complaint-service/internal/events"
	"github.com/spec-kit/bus-complaint-service/internal/notify"
	"github.com/spec-kit/bus-complaint-service/internal/repository"
	apperrors "github.com/spec-kit/bus-complaint-service/pkg/util"
)

// incidentDateLayout is the wire format for incident dates. Date only; the
// stored value is midnight of that day.
const incidentDateLayout = "2006-01-02"

// duplicateMessage is what callers see when the duplicate rule suppresses a
// submission.
const duplicateMessage = "a similar complaint has already been submitted for this bus on the selected date"

// ComplaintService governs the complaint lifecycle: submission with
// duplicate suppression, status transitions, and the notifications both
// trigger.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	detector   *duplicate.Detector
	sink       notify.Sink
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Detector      *duplicate.Detector
	Sink          notify.Sink
	Dispatcher    events.Dispatcher
}

// SubmitComplaintInput describes a submission payload. IncidentDate is the
// raw form value; parsing happens during validation.
type SubmitComplaintInput struct {
	StudentID    string
	BusRoute     string
	Title        string
	Description  string
	Location     string
	IncidentDate string
}

// SubmitResult separates the persisted outcome from the best-effort
// notification outcome; the two must never share an error channel.
type SubmitResult struct {
	Complaint        *domain.Complaint
	NotificationSent bool
}

// StatusUpdateResult mirrors SubmitResult for admin status transitions.
type StatusUpdateResult struct {
	Complaint        *domain.Complaint
	NotificationSent bool
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		detector:   deps.Detector,
		sink:       deps.Sink,
		dispatcher: deps.Dispatcher,
	}
}

// Submit validates, runs the duplicate check, persists with status pending
// and attempts a confirmation email. Nothing is persisted on validation
// failure or duplicate suppression; a failed email never rolls back the
// write.
func (s *ComplaintService) Submit(ctx context.Context, actor *domain.User, input SubmitComplaintInput) (*SubmitResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	missing := missingFields(input)
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("all fields are required", map[string]any{"missing": missing})
	}

	incidentDate, err := parseIncidentDate(input.IncidentDate)
	if err != nil {
		return nil, err
	}

	isDup, err := s.detector.IsDuplicate(ctx, input.BusRoute, incidentDate, input.Description)
	if err != nil {
		return nil, err
	}
	if isDup {
		s.publish(ctx, events.Event{
			Type:    events.EventComplaintDuplicateBlocked,
			ActorID: actor.ID,
			Payload: events.ComplaintDuplicateBlockedPayload{
				BusRoute:     input.BusRoute,
				IncidentDate: incidentDate,
			},
		})
		return nil, apperrors.NewDuplicateComplaint(duplicateMessage)
	}

	complaint := &domain.Complaint{
		UserID:       actor.ID,
		StudentID:    strings.TrimSpace(input.StudentID),
		BusRoute:     input.BusRoute,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Location:     strings.TrimSpace(input.Location),
		Status:       domain.ComplaintStatusPending,
		IncidentDate: incidentDate,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	sent := s.sink.Send(ctx, notify.SubjectSubmission, actor.Email, notify.SubmissionBody(actor.Email, complaint))

	s.publish(ctx, events.Event{
		Type:    events.EventComplaintSubmitted,
		ActorID: actor.ID,
		Payload: events.ComplaintSubmittedPayload{
			ComplaintID:      complaint.ID,
			BusRoute:         complaint.BusRoute,
			Title:            complaint.Title,
			IncidentDate:     complaint.IncidentDate,
			NotificationSent: sent,
		},
	})

	return &SubmitResult{Complaint: complaint, NotificationSent: sent}, nil
}

// CheckDuplicate applies exactly the same rule as Submit, for pre-submission
// hinting. The two paths share the detector so they can never disagree.
func (s *ComplaintService) CheckDuplicate(ctx context.Context, busRoute, description, incidentDate string) (bool, error) {
	if strings.TrimSpace(busRoute) == "" || strings.TrimSpace(incidentDate) == "" {
		return false, apperrors.NewValidationError("bus_route and incident_date required", nil)
	}
	parsed, err := parseIncidentDate(incidentDate)
	if err != nil {
		return false, err
	}
	return s.detector.IsDuplicate(ctx, busRoute, parsed, description)
}

// UpdateStatus transitions a complaint's status on behalf of an
// administrator, then attempts to notify the owner. The find-and-update is a
// single atomic statement; the notification outcome never affects it.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *domain.User, complaintID string, newStatus domain.ComplaintStatus) (*StatusUpdateResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if strings.TrimSpace(string(newStatus)) == "" {
		return nil, apperrors.NewValidationError("status required", nil)
	}
	if strings.TrimSpace(complaintID) == "" {
		return nil, apperrors.NewValidationError("complaint id required", nil)
	}

	complaint, err := s.complaints.UpdateStatus(ctx, complaintID, newStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, err
	}

	sent := false
	owner, err := s.users.GetByID(ctx, complaint.UserID)
	if err == nil {
		sent = s.sink.Send(ctx, notify.SubjectStatusUpdate, owner.Email,
			notify.StatusUpdateBody(owner.Email, complaint, complaint.UpdatedAt))
	}
	// The owner vanishing between the write and the lookup only costs the
	// notification; the status change stands.

	s.publish(ctx, events.Event{
		Type:    events.EventComplaintStatusChanged,
		ActorID: actor.ID,
		Payload: events.ComplaintStatusChangedPayload{
			ComplaintID:      complaint.ID,
			NewStatus:        complaint.Status,
			NotificationSent: sent,
		},
	})

	return &StatusUpdateResult{Complaint: complaint, NotificationSent: sent}, nil
}

// ListForUser returns the caller's own complaints.
func (s *ComplaintService) ListForUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	return s.complaints.ListByUser(ctx, userID)
}

// ListAll returns every complaint, for the admin dashboard.
func (s *ComplaintService) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return s.complaints.ListAll(ctx)
}

// Stats returns the admin dashboard counters.
func (s *ComplaintService) Stats(ctx context.Context) (*repository.ComplaintStats, error) {
	return s.complaints.Stats(ctx)
}

func parseIncidentDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(incidentDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("incident_date must be YYYY-MM-DD", map[string]any{"incident_date": raw})
	}
	return duplicate.Midnight(parsed), nil
}

func missingFields(input SubmitComplaintInput) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("student_id", input.StudentID)
	check("bus_route", input.BusRoute)
	check("title", input.Title)
	check("description", input.Description)
	check("location", input.Location)
	check("incident_date", input.IncidentDate)
	return missing
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
