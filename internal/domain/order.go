package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// ParseOrderStatus accepts any letter case.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range OrderStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}

// IsTerminal reports whether no further transition exists.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the following status on the linear progression. It is used for
// rendering only; the order service decides what is legal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

// Order is a purchase record as confirmed by the order service.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Draft limits taken from the order form.
const (
	MinDraftQuantity = 1
	MaxDraftQuantity = 100
)

// Draft holds not-yet-submitted order form values.
type Draft struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Total is the preview amount shown before submission.
func (d Draft) Total() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Validate returns per-field messages; an empty map means the draft may be sent.
func (d Draft) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.ProductName) == "" {
		errs["productName"] = "Product name is required"
	}
	if d.Quantity < MinDraftQuantity {
		errs["quantity"] = "Quantity must be at least 1"
	} else if d.Quantity > MaxDraftQuantity {
		errs["quantity"] = "Quantity cannot exceed 100"
	}
	if !d.Price.IsPositive() {
		errs["price"] = "Price must be greater than 0"
	}
	return errs
}

// OrderStats summarises a set of orders for the dashboards.
type OrderStats struct {
	Total     int                 `json:"total"`
	Pending   int                 `json:"pending"`
	Delivered int                 `json:"delivered"`
	ByStatus  map[OrderStatus]int `json:"byStatus"`
}

// Summarize counts orders per status.
func Summarize(orders []Order) OrderStats {
	stats := OrderStats{Total: len(orders), ByStatus: make(map[OrderStatus]int, len(OrderStatuses))}
	for _, status := range OrderStatuses {
		stats.ByStatus[status] = 0
	}
	for _, order := range orders {
		stats.ByStatus[order.Status]++
	}
	stats.Pending = stats.ByStatus[OrderStatusPending]
	stats.Delivered = stats.ByStatus[OrderStatusDelivered]
	return stats
}
