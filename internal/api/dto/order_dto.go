package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/anupgautam23/oms-frontend/internal/domain"
)

// DraftRequest payload for previewing and placing orders. Price accepts a
// JSON number or string.
type DraftRequest struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Draft converts the payload.
func (r DraftRequest) Draft() domain.Draft {
	return domain.Draft{ProductName: r.ProductName, Quantity: r.Quantity, Price: r.Price}
}

// DraftPreview echoes a valid draft with its total.
type DraftPreview struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// NewDraftPreview builds the preview.
func NewDraftPreview(d domain.Draft) DraftPreview {
	return DraftPreview{ProductName: d.ProductName, Quantity: d.Quantity, Price: d.Price, Total: d.Total()}
}

// OrderResponse is an order as rendered on the dashboards.
type OrderResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	ProductName string             `json:"productName"`
	Quantity    int                `json:"quantity"`
	Price       decimal.Decimal    `json:"price"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Status      domain.OrderStatus `json:"status"`
	Hint        string             `json:"hint,omitempty"`
	NextStatus  domain.OrderStatus `json:"nextStatus,omitempty"`
	Terminal    bool               `json:"terminal"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

var statusHints = map[domain.OrderStatus]string{
	domain.OrderStatusPending:    "Awaiting confirmation",
	domain.OrderStatusProcessing: "Being prepared",
	domain.OrderStatusDelivered:  "Order fulfilled",
	domain.OrderStatusCancelled:  "Order cancelled",
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o domain.Order) OrderResponse {
	next, _ := o.Status.Next()
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		ProductName: o.ProductName,
		Quantity:    o.Quantity,
		Price:       o.Price,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		Hint:        statusHints[o.Status],
		NextStatus:  next,
		Terminal:    o.Status.IsTerminal(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// NewOrderResponses maps a list, keeping order.
func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

// DashboardResponse is the per-user dashboard.
type DashboardResponse struct {
	User      *domain.User      `json:"user"`
	Orders    []OrderResponse   `json:"orders"`
	Stats     domain.OrderStats `json:"stats"`
	IsLoading bool              `json:"isLoading"`
}

// AdminDashboardResponse covers the full collection.
type AdminDashboardResponse struct {
	Orders    []OrderResponse      `json:"orders"`
	Stats     domain.OrderStats    `json:"stats"`
	Statuses  []domain.OrderStatus `json:"statuses"`
	IsLoading bool                 `json:"isLoading"`
}
