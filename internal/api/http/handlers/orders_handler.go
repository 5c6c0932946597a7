package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/anupgautam23/oms-frontend/internal/api/dto"
	"github.com/anupgautam23/oms-frontend/internal/domain"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

// OrdersHandler exposes the user's orders and order mutations.
type OrdersHandler struct{}

// NewOrdersHandler constructs handler.
func NewOrdersHandler() *OrdersHandler {
	return &OrdersHandler{}
}

// Dashboard handles GET /api/dashboard. refresh=true refetches first.
func (h *OrdersHandler) Dashboard(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	if c.QueryBool("refresh") {
		ws.Orders.FetchUserOrders(c.UserContext())
	}
	mine := ws.Orders.UserOrders()
	return respond(c, http.StatusOK, dto.DashboardResponse{
		User:      ws.Session.User(),
		Orders:    dto.NewOrderResponses(mine),
		Stats:     domain.Summarize(mine),
		IsLoading: ws.Orders.IsLoading(),
	})
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	if c.QueryBool("refresh") {
		ws.Orders.FetchUserOrders(c.UserContext())
	}
	return respond(c, http.StatusOK, dto.NewOrderResponses(ws.Orders.UserOrders()))
}

// Preview handles POST /api/orders/preview.
func (h *OrdersHandler) Preview(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewDraftPreview(draft))
}

// Place handles POST /api/orders.
func (h *OrdersHandler) Place(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	draft, err := parseDraft(c)
	if err != nil {
		return err
	}
	placed, ok := ws.Orders.PlaceOrder(c.UserContext(), draft.ProductName, draft.Quantity, draft.Price)
	if !ok {
		return apperrors.NewOperationFailed(ws.Notifications.LastError(), http.StatusBadGateway)
	}
	return respond(c, http.StatusCreated, fiber.Map{"order": dto.NewOrderResponse(placed), "redirect": "/"})
}

// UpdateStatus handles PUT /api/orders/:id/status?status=.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	status, err := domain.ParseOrderStatus(c.Query("status"))
	if err != nil {
		return apperrors.NewValidationError("invalid status", map[string]string{"status": err.Error()})
	}
	id := c.Params("id")
	if !ws.Orders.UpdateOrderStatus(c.UserContext(), id, status) {
		return apperrors.NewOperationFailed(ws.Notifications.LastError(), http.StatusBadGateway)
	}
	return respondWithOrder(c, ws.Orders.Orders(), id)
}

// Cancel handles DELETE /api/orders/:id.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	ws, err := currentWorkspace(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	if !ws.Orders.CancelOrder(c.UserContext(), id) {
		return apperrors.NewOperationFailed(ws.Notifications.LastError(), http.StatusBadGateway)
	}
	return respondWithOrder(c, ws.Orders.Orders(), id)
}

func respondWithOrder(c *fiber.Ctx, orders []domain.Order, id string) error {
	for _, o := range orders {
		if o.ID == id {
			return respond(c, http.StatusOK, dto.NewOrderResponse(o))
		}
	}
	return respond(c, http.StatusOK, fiber.Map{"id": id})
}

func parseDraft(c *fiber.Ctx) (domain.Draft, error) {
	var req dto.DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Draft{}, apperrors.NewValidationError("invalid payload", nil)
	}
	draft := req.Draft()
	if problems := draft.Validate(); len(problems) > 0 {
		return domain.Draft{}, apperrors.NewValidationError("invalid order form", problems)
	}
	return draft, nil
}
