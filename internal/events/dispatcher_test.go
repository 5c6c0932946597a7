package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishInSubscriptionOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventSessionChanged, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.Workspace)
		return nil
	})
	d.Subscribe(EventSessionChanged, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.Workspace)
		return nil
	})
	d.Subscribe(EventOrdersChanged, func(_ context.Context, _ Event) error {
		calls = append(calls, "orders")
		return nil
	})

	err := d.Publish(context.Background(), New(EventSessionChanged, "ws-1", SessionChangedPayload{Reason: "login"}))

	require.NoError(t, err)
	assert.Equal(t, []string{"first:ws-1", "second:ws-1"}, calls)
}

func TestDispatcher_HandlerErrorsDoNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	ran := false
	boom := errors.New("boom")

	d.Subscribe(EventOrdersChanged, func(context.Context, Event) error { return boom })
	d.Subscribe(EventOrdersChanged, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), New(EventOrdersChanged, "ws", OrdersChangedPayload{Operation: "fetch"}))

	assert.ErrorIs(t, err, boom)
	assert.True(t, ran)
}

func TestNew_StampsEvent(t *testing.T) {
	e := New(EventNotificationRaised, "ws", NotificationPayload{Level: LevelSuccess, Message: "ok"})

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventNotificationRaised, e.Type)
}
