package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anupgautam23/oms-frontend/internal/workspace"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

// HomePath is where non-admins are sent from admin pages.
const HomePath = "/"

// RequireUser ensures the workspace holds a signed-in user.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, ok := WorkspaceFromContext(c)
		if !ok || ws.Session.User() == nil {
			return apperrors.WithRedirect(apperrors.NewUnauthorized("sign in required"), workspace.LoginPath)
		}
		return c.Next()
	}
}

// RequireAdmin ensures the signed-in user carries the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, ok := WorkspaceFromContext(c)
		if !ok || ws.Session.User() == nil {
			return apperrors.WithRedirect(apperrors.NewUnauthorized("sign in required"), workspace.LoginPath)
		}
		if !ws.Session.User().IsAdmin() {
			return apperrors.WithRedirect(apperrors.NewForbidden("admin access required"), HomePath)
		}
		return c.Next()
	}
}
