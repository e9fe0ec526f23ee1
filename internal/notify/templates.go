package notify

import (
	"fmt"
	"time"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
)

// Mail subjects for the lifecycle notifications.
const (
	SubjectWelcome      = "Welcome to Bus Complaint System"
	SubjectSubmission   = "Complaint Submission Confirmation"
	SubjectStatusUpdate = "Complaint Status Update"
)

// WelcomeBody renders the registration welcome email.
func WelcomeBody(email string) string {
	return fmt.Sprintf(`<h2>Welcome to the Bus Complaint System!</h2>
<p>Dear %s,</p>
<p>Thank you for registering with our bus complaint management system. Your account has been successfully created.</p>
<p>You can now log in and submit your complaints.</p>`, email)
}

// SubmissionBody renders the confirmation sent after a complaint is filed.
func SubmissionBody(email string, complaint *domain.Complaint) string {
	return fmt.Sprintf(`<h2>Complaint Submission Confirmation</h2>
<p>Dear %s,</p>
<p>Your complaint has been successfully submitted with the following details:</p>
<ul>
<li>Title: %s</li>
<li>Bus Route: %s</li>
<li>Location: %s</li>
<li>Status: Pending</li>
<li>Incident Date: %s</li>
</ul>
<p>We will review your complaint and take necessary action.</p>`,
		email,
		complaint.Title,
		complaint.BusRoute,
		complaint.Location,
		complaint.IncidentDate.Format("2006-01-02"))
}

// StatusUpdateBody renders the notification sent to the complaint's owner
// when an administrator changes its status.
func StatusUpdateBody(email string, complaint *domain.Complaint, updatedAt time.Time) string {
	return fmt.Sprintf(`<h2>Complaint Status Update</h2>
<p>Dear %s,</p>
<p>Your complaint has been updated:</p>
<ul>
<li>Title: %s</li>
<li>New Status: %s</li>
<li>Updated At: %s</li>
</ul>`,
		email,
		complaint.Title,
		complaint.Status,
		updatedAt.UTC().Format("2006-01-02 15:04"))
}
