package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/anupgautam23/oms-frontend/internal/domain"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

var errMissingToken = errors.New("login response carries no token")

// OrderClient calls the order service. Every call is authenticated.
type OrderClient struct {
	baseURL string
	req     *Requester
}

// NewOrderClient binds the order endpoints to a workspace requester.
func NewOrderClient(baseURL string, requester *Requester) *OrderClient {
	return &OrderClient{baseURL: baseURL, req: requester}
}

// List returns the caller's orders as scoped by the order service.
func (c *OrderClient) List(ctx context.Context) ([]domain.Order, error) {
	var payloads []orderPayload
	if err := c.req.Do(ctx, "orders.list", http.MethodGet, c.baseURL+"/api/orders", nil, &payloads); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(payloads))
	for _, p := range payloads {
		order, err := p.toDomain()
		if err != nil {
			return nil, apperrors.NewDecodeError(err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Create submits a draft and returns the server-confirmed order.
func (c *OrderClient) Create(ctx context.Context, draft domain.Draft) (domain.Order, error) {
	body := createOrderRequest{
		ProductName: draft.ProductName,
		Quantity:    draft.Quantity,
		Price:       json.Number(draft.Price.String()),
	}
	var payload orderPayload
	if err := c.req.Do(ctx, "orders.create", http.MethodPost, c.baseURL+"/api/orders", body, &payload); err != nil {
		return domain.Order{}, err
	}
	return decodeOrder(payload)
}

// UpdateStatus requests a status transition; the order service decides
// whether it is legal.
func (c *OrderClient) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	endpoint := fmt.Sprintf("%s/api/orders/%s/status?status=%s", c.baseURL, url.PathEscape(orderID), url.QueryEscape(string(status)))
	var payload orderPayload
	if err := c.req.Do(ctx, "orders.status", http.MethodPut, endpoint, nil, &payload); err != nil {
		return domain.Order{}, err
	}
	return decodeOrder(payload)
}

// Cancel requests cancellation. The acknowledgment may be empty, plain text
// or the cancelled order; the order is returned only in the last case.
func (c *OrderClient) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	endpoint := fmt.Sprintf("%s/api/orders/%s", c.baseURL, url.PathEscape(orderID))
	var raw []byte
	if err := c.req.Do(ctx, "orders.cancel", http.MethodDelete, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var payload orderPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ID == "" {
		return nil, nil
	}
	order, err := payload.toDomain()
	if err != nil {
		return nil, nil
	}
	return &order, nil
}

func decodeOrder(payload orderPayload) (domain.Order, error) {
	order, err := payload.toDomain()
	if err != nil {
		return domain.Order{}, apperrors.NewDecodeError(err)
	}
	return order, nil
}
