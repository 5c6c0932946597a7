package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/anupgautam23/oms-frontend/internal/api/dto"
	"github.com/anupgautam23/oms-frontend/internal/domain"
)

// AdminHandler exposes the full order collection.
type AdminHandler struct{}

// NewAdminHandler constructs handler.
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	if c.QueryBool("refresh") {
		ws.Orders.FetchUserOrders(c.UserContext())
	}
	all := ws.Orders.Orders()
	return respond(c, http.StatusOK, dto.AdminDashboardResponse{
		Orders:    dto.NewOrderResponses(all),
		Stats:     domain.Summarize(all),
		Statuses:  domain.OrderStatuses,
		IsLoading: ws.Orders.IsLoading(),
	})
}
