package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/anupgautam23/oms-frontend/internal/domain"
	"github.com/anupgautam23/oms-frontend/internal/events"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

// Order collection operations carried by orders.changed events.
const (
	OperationFetched   = "fetched"
	OperationPlaced    = "placed"
	OperationUpdated   = "status_updated"
	OperationCancelled = "cancelled"
	OperationReset     = "reset"
)

const signInRequired = "Please sign in to continue"

// OrderAPI is the order service surface used by the store.
type OrderAPI interface {
	List(ctx context.Context) ([]domain.Order, error)
	Create(ctx context.Context, draft domain.Draft) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
	Cancel(ctx context.Context, orderID string) (*domain.Order, error)
}

// SessionReader exposes the current user to the order store.
type SessionReader interface {
	User() *domain.User
}

// OrderDependencies encapsulates collaborators of the order store.
type OrderDependencies struct {
	Orders     OrderAPI
	Session    SessionReader
	Notifier   Notifier
	Dispatcher events.Dispatcher
	Workspace  string
	Logger     *zap.Logger
}

// OrderStore holds the order collection of one workspace, newest first.
type OrderStore struct {
	api        OrderAPI
	session    SessionReader
	notifier   Notifier
	dispatcher events.Dispatcher
	workspace  string
	logger     *zap.Logger
	now        func() time.Time

	calls singleflight.Group

	mu       sync.RWMutex
	orders   []domain.Order
	inFlight int
	fetching bool
	// placed while a fetch was outstanding; re-applied if the snapshot lacks them
	placedDuringFetch []domain.Order
}

// NewOrderStore builds an empty store.
func NewOrderStore(deps OrderDependencies) *OrderStore {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderStore{
		api:        deps.Orders,
		session:    deps.Session,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		workspace:  deps.Workspace,
		logger:     logger.With(zap.String("workspace", deps.Workspace)),
		now:        time.Now,
	}
}

// RegisterHandlers makes the store follow the session: a present user
// triggers a fetch, an absent one clears the collection.
func (s *OrderStore) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventSessionChanged, s.handleSessionChanged)
}

func (s *OrderStore) handleSessionChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SessionChangedPayload)
	if !ok {
		return nil
	}
	if payload.User == nil {
		s.reset(ctx)
		return nil
	}
	s.FetchUserOrders(ctx)
	return nil
}

// Orders returns a copy of the full collection.
func (s *OrderStore) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Order{}, s.orders...)
}

// UserOrders returns the orders owned by the current session user.
func (s *OrderStore) UserOrders() []domain.Order {
	user := s.session.User()
	out := []domain.Order{}
	if user == nil {
		return out
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.orders {
		if order.UserID == user.ID {
			out = append(out, order)
		}
	}
	return out
}

// IsLoading reports whether any order operation is in flight.
func (s *OrderStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// FetchUserOrders replaces the collection with the server's list. On failure
// the previous collection is kept.
func (s *OrderStore) FetchUserOrders(ctx context.Context) bool {
	if s.session.User() == nil {
		s.notifier.Error(ctx, signInRequired)
		return false
	}
	return s.shared(ctx, "fetch", func(ctx context.Context) outcome {
		return outcome{ok: s.fetch(ctx)}
	}).ok
}

// PlaceOrder submits a draft, prepends the confirmed order and returns it.
func (s *OrderStore) PlaceOrder(ctx context.Context, productName string, quantity int, price decimal.Decimal) (domain.Order, bool) {
	if s.session.User() == nil {
		s.notifier.Error(ctx, "Please sign in to place an order")
		return domain.Order{}, false
	}
	draft := domain.Draft{ProductName: productName, Quantity: quantity, Price: price}
	if problems := draft.Validate(); len(problems) > 0 {
		s.notifier.Error(ctx, firstProblem(problems))
		return domain.Order{}, false
	}
	key := fmt.Sprintf("place:%s|%d|%s", productName, quantity, price.String())
	res := s.shared(ctx, key, func(ctx context.Context) outcome {
		return s.place(ctx, draft)
	})
	return res.order, res.ok
}

// UpdateOrderStatus asks the order service for a transition and merges the
// returned status into the matching record.
func (s *OrderStore) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) bool {
	if s.session.User() == nil {
		s.notifier.Error(ctx, signInRequired)
		return false
	}
	key := fmt.Sprintf("status:%s|%s", orderID, status)
	return s.shared(ctx, key, func(ctx context.Context) outcome {
		return outcome{ok: s.updateStatus(ctx, orderID, status)}
	}).ok
}

// CancelOrder asks the order service to cancel an order. The local record
// changes only once the service has acknowledged.
func (s *OrderStore) CancelOrder(ctx context.Context, orderID string) bool {
	if s.session.User() == nil {
		s.notifier.Error(ctx, signInRequired)
		return false
	}
	return s.shared(ctx, "cancel:"+orderID, func(ctx context.Context) outcome {
		return outcome{ok: s.cancel(ctx, orderID)}
	}).ok
}

// outcome is the result shared by duplicate callers of one operation.
type outcome struct {
	order domain.Order
	ok    bool
}

// shared runs fn once per key. Duplicate callers wait for the first call's
// result; a caller whose context ends stops waiting and reports failure while
// the shared call carries on.
func (s *OrderStore) shared(ctx context.Context, key string, fn func(context.Context) outcome) outcome {
	detached := context.WithoutCancel(ctx)
	ch := s.calls.DoChan(key, func() (interface{}, error) {
		s.track(1)
		defer s.track(-1)
		return fn(detached), nil
	})
	select {
	case res := <-ch:
		out, _ := res.Val.(outcome)
		return out
	case <-ctx.Done():
		s.logger.Debug("caller stopped waiting", zap.String("key", key), zap.Error(ctx.Err()))
		return outcome{}
	}
}

func (s *OrderStore) track(delta int) {
	s.mu.Lock()
	s.inFlight += delta
	s.mu.Unlock()
}

func (s *OrderStore) fetch(ctx context.Context) bool {
	s.mu.Lock()
	s.fetching = true
	s.placedDuringFetch = nil
	s.mu.Unlock()

	fetched, err := s.api.List(ctx)

	s.mu.Lock()
	placed := s.placedDuringFetch
	s.fetching = false
	s.placedDuringFetch = nil
	if err == nil {
		merged := make([]domain.Order, 0, len(fetched)+len(placed))
		for _, order := range placed {
			if indexOf(fetched, order.ID) < 0 {
				merged = append([]domain.Order{order}, merged...)
			}
		}
		s.orders = append(merged, fetched...)
	}
	count := len(s.orders)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("failed to fetch orders", zap.Error(err))
		s.notifier.Error(ctx, fmt.Sprintf("Failed to load orders: %s", apperrors.UserMessage(err)))
		return false
	}
	s.publish(ctx, OperationFetched, "", count)
	return true
}

func (s *OrderStore) place(ctx context.Context, draft domain.Draft) outcome {
	order, err := s.api.Create(ctx, draft)
	if err != nil {
		s.logger.Warn("failed to place order", zap.Error(err))
		s.notifier.Error(ctx, fmt.Sprintf("Failed to place order: %s", apperrors.UserMessage(err)))
		return outcome{}
	}

	s.mu.Lock()
	if indexOf(s.orders, order.ID) < 0 {
		s.orders = append([]domain.Order{order}, s.orders...)
	}
	if s.fetching {
		s.placedDuringFetch = append(s.placedDuringFetch, order)
	}
	count := len(s.orders)
	s.mu.Unlock()

	s.publish(ctx, OperationPlaced, order.ID, count)
	s.notifier.Success(ctx, "Order placed successfully!")
	return outcome{order: order, ok: true}
}

func (s *OrderStore) updateStatus(ctx context.Context, orderID string, status domain.OrderStatus) bool {
	updated, err := s.api.UpdateStatus(ctx, orderID, status)
	if err != nil {
		s.logger.Warn("failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		s.notifier.Error(ctx, fmt.Sprintf("Failed to update order status: %s", apperrors.UserMessage(err)))
		return false
	}
	stamp := updated.UpdatedAt
	if stamp.IsZero() {
		stamp = s.now().UTC()
	}
	newStatus := updated.Status
	if newStatus == "" {
		newStatus = status
	}

	count := s.apply(orderID, func(order *domain.Order) {
		order.Status = newStatus
		order.UpdatedAt = stamp
	})
	s.publish(ctx, OperationUpdated, orderID, count)
	s.notifier.Success(ctx, "Order status updated")
	return true
}

func (s *OrderStore) cancel(ctx context.Context, orderID string) bool {
	ack, err := s.api.Cancel(ctx, orderID)
	if err != nil {
		s.logger.Warn("failed to cancel order", zap.String("order_id", orderID), zap.Error(err))
		s.notifier.Error(ctx, fmt.Sprintf("Failed to cancel order: %s", apperrors.UserMessage(err)))
		return false
	}
	stamp := s.now().UTC()
	if ack != nil && !ack.UpdatedAt.IsZero() {
		stamp = ack.UpdatedAt
	}

	count := s.apply(orderID, func(order *domain.Order) {
		order.Status = domain.OrderStatusCancelled
		order.UpdatedAt = stamp
	})
	s.publish(ctx, OperationCancelled, orderID, count)
	s.notifier.Success(ctx, "Order cancelled")
	return true
}

// apply mutates the record with the given id and returns the collection size.
func (s *OrderStore) apply(orderID string, mutate func(*domain.Order)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.orders, orderID); i >= 0 {
		mutate(&s.orders[i])
	}
	return len(s.orders)
}

func (s *OrderStore) reset(ctx context.Context) {
	s.mu.Lock()
	had := len(s.orders) > 0
	s.orders = nil
	s.placedDuringFetch = nil
	s.mu.Unlock()
	if had {
		s.publish(ctx, OperationReset, "", 0)
	}
}

func (s *OrderStore) publish(ctx context.Context, operation, orderID string, count int) {
	if s.dispatcher == nil {
		return
	}
	payload := events.OrdersChangedPayload{Operation: operation, OrderID: orderID, Count: count}
	if err := s.dispatcher.Publish(ctx, events.New(events.EventOrdersChanged, s.workspace, payload)); err != nil {
		s.logger.Warn("orders change handler failed", zap.Error(err))
	}
}

func indexOf(orders []domain.Order, id string) int {
	for i, order := range orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}

func firstProblem(problems map[string]string) string {
	for _, field := range []string{"productName", "quantity", "price"} {
		if msg, ok := problems[field]; ok {
			return msg
		}
	}
	for _, msg := range problems {
		return msg
	}
	return ""
}
