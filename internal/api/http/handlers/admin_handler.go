package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bus-complaint-service/internal/api/dto"
	"github.com/spec-kit/bus-complaint-service/internal/auth"
	"github.com/spec-kit/bus-complaint-service/internal/service"
	apperrors "github.com/spec-kit/bus-complaint-service/pkg/util"
)

// AdminHandler exposes the administrator dashboard operations. Routes using
// it sit behind auth.RequireAdmin.
type AdminHandler struct {
	complaints *service.ComplaintService
	accounts   *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaintService *service.ComplaintService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{complaints: complaintService, accounts: authService}
}

// ListAll handles GET /admin/complaints.
func (h *AdminHandler) ListAll(c *fiber.Ctx) error {
	list, err := h.complaints.ListAll(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"complaints": dto.FromComplaints(list)}})
}

// Students handles GET /admin/students, the dashboard's student directory.
func (h *AdminHandler) Students(c *fiber.Ctx) error {
	list, err := h.accounts.ListStudents(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"students": dto.FromUsers(list)}})
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.complaints.Stats(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"total":    stats.Total,
		"pending":  stats.Pending,
		"resolved": stats.Resolved,
	}})
}

// UpdateStatus handles PATCH /admin/complaints/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.complaints.UpdateStatus(c.UserContext(), principal.User, c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	message := "complaint status updated successfully, notification email sent"
	if !result.NotificationSent {
		message = "complaint status updated successfully, but notification email could not be sent"
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"complaint": dto.FromComplaint(result.Complaint),
			"message":   message,
		},
	})
}
