package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// NotificationsHandler drains the workspace inbox.
type NotificationsHandler struct{}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler() *NotificationsHandler {
	return &NotificationsHandler{}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ws.Notifications.Drain())
}
