package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bus-complaint-service/internal/api/dto"
	"github.com/spec-kit/bus-complaint-service/internal/auth"
	"github.com/spec-kit/bus-complaint-service/internal/service"
	apperrors "github.com/spec-kit/bus-complaint-service/pkg/util"
)

// ComplaintsHandler exposes submission and listing for authenticated users.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	busRoutes  []string
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService, busRoutes []string) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService, busRoutes: busRoutes}
}

// Routes handles GET /routes, the selectable bus routes for the submit form.
func (h *ComplaintsHandler) Routes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"bus_routes": h.busRoutes}})
}

// Submit handles POST /complaints.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.complaints.Submit(c.UserContext(), principal.User, service.SubmitComplaintInput{
		StudentID:    req.StudentID,
		BusRoute:     req.BusRoute,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		IncidentDate: req.IncidentDate,
	})
	if err != nil {
		return err
	}

	message := "complaint submitted successfully, confirmation email sent"
	if !result.NotificationSent {
		message = "complaint submitted successfully, but confirmation email could not be sent"
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"complaint": dto.FromComplaint(result.Complaint),
			"message":   message,
		},
	})
}

// ListMine handles GET /complaints, the caller's own complaints.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	list, err := h.complaints.ListForUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"complaints": dto.FromComplaints(list)}})
}

// CheckDuplicate handles POST /complaints/check-duplicate, the
// pre-submission hint. It runs the same rule as Submit.
func (h *ComplaintsHandler) CheckDuplicate(c *fiber.Ctx) error {
	var req dto.CheckDuplicateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	isDup, err := h.complaints.CheckDuplicate(c.UserContext(), req.BusRoute, req.Description, req.IncidentDate)
	if err != nil {
		return err
	}

	response := fiber.Map{"duplicate": isDup}
	if isDup {
		response["message"] = "a similar complaint has already been submitted"
	}
	return c.JSON(response)
}
