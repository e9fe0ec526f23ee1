package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bus-complaint-service/internal/domain"
	apperrors "github.com/spec-kit/bus-complaint-service/pkg/util"
)

// RequireAuthenticated ensures a caller has been resolved by the middleware.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin gates administrator-only operations. Non-admin callers are
// rejected with FORBIDDEN; their own dashboard remains available to them.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User == nil || principal.User.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
