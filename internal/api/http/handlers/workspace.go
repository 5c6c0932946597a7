package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anupgautam23/oms-frontend/internal/auth"
	"github.com/anupgautam23/oms-frontend/internal/workspace"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

func currentWorkspace(c *fiber.Ctx) (*workspace.Workspace, error) {
	ws, ok := auth.WorkspaceFromContext(c)
	if !ok {
		return nil, apperrors.NewInternalError(nil)
	}
	return ws, nil
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}
