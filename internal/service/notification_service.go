package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anupgautam23/oms-frontend/internal/events"
)

// Notifier surfaces user-visible success and error messages.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// NotificationService queues messages for one workspace until a view drains
// them. The inbox is bounded; the oldest message is dropped when it is full.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	workspace  string
	capacity   int

	mu    sync.Mutex
	inbox []events.NotificationPayload
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, workspace string, capacity int, logger *zap.Logger) *NotificationService {
	if capacity <= 0 {
		capacity = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		workspace:  workspace,
		capacity:   capacity,
	}
}

// RegisterHandlers subscribes to store events for the audit log.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSessionChanged, n.handleSessionChanged)
	n.dispatcher.Subscribe(events.EventOrdersChanged, n.handleOrdersChanged)
}

func (n *NotificationService) handleSessionChanged(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.SessionChangedPayload)
	fields := []zap.Field{zap.String("workspace", event.Workspace), zap.String("reason", payload.Reason)}
	if payload.User != nil {
		fields = append(fields, zap.String("user_id", payload.User.ID), zap.String("role", string(payload.User.Role)))
	}
	n.logger.Info("SessionChanged", fields...)
	return nil
}

func (n *NotificationService) handleOrdersChanged(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.OrdersChangedPayload)
	n.logger.Debug("OrdersChanged",
		zap.String("workspace", event.Workspace),
		zap.String("operation", payload.Operation),
		zap.String("order_id", payload.OrderID),
		zap.Int("count", payload.Count))
	return nil
}

// Success queues a success message.
func (n *NotificationService) Success(ctx context.Context, message string) {
	n.raise(ctx, events.LevelSuccess, message)
}

// Error queues an error message.
func (n *NotificationService) Error(ctx context.Context, message string) {
	n.raise(ctx, events.LevelError, message)
}

func (n *NotificationService) raise(ctx context.Context, level, message string) {
	note := events.NotificationPayload{Level: level, Message: message, At: time.Now().UTC()}

	n.mu.Lock()
	if len(n.inbox) >= n.capacity {
		n.inbox = n.inbox[len(n.inbox)-n.capacity+1:]
	}
	n.inbox = append(n.inbox, note)
	n.mu.Unlock()

	if level == events.LevelError {
		n.logger.Warn("notification", zap.String("workspace", n.workspace), zap.String("level", level), zap.String("message", message))
	} else {
		n.logger.Info("notification", zap.String("workspace", n.workspace), zap.String("level", level), zap.String("message", message))
	}

	if n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.Publish(ctx, events.New(events.EventNotificationRaised, n.workspace, note)); err != nil {
		n.logger.Warn("notification handler failed", zap.Error(err))
	}
}

// Drain returns queued messages oldest first and empties the inbox.
func (n *NotificationService) Drain() []events.NotificationPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.inbox
	n.inbox = nil
	if out == nil {
		return []events.NotificationPayload{}
	}
	return out
}

// LastError returns the newest queued error message without draining.
func (n *NotificationService) LastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.inbox) - 1; i >= 0; i-- {
		if n.inbox[i].Level == events.LevelError {
			return n.inbox[i].Message
		}
	}
	return ""
}

// Pending reports how many messages are queued.
func (n *NotificationService) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.inbox)
}
