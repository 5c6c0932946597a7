package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/anupgautam23/oms-frontend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionChanged     EventType = "session.changed"
	EventOrdersChanged      EventType = "orders.changed"
	EventNotificationRaised EventType = "notification.raised"
)

// Event is a state change emitted by a workspace store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Workspace string      `json:"workspace"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, workspace string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Workspace: workspace,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionChangedPayload carries the session user after the change; User is
// nil once logged out.
type SessionChangedPayload struct {
	User   *domain.User `json:"user"`
	Reason string       `json:"reason"`
}

// OrdersChangedPayload describes a collection mutation.
type OrdersChangedPayload struct {
	Operation string `json:"operation"`
	OrderID   string `json:"order_id,omitempty"`
	Count     int    `json:"count"`
}

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// NotificationPayload is one user-visible message.
type NotificationPayload struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}
