package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus(nil)
	var got Event
	bus.Subscribe(EventTypeSessionUnauthorized, func(ctx context.Context, event Event) error {
		got = event
		return nil
	})

	err := bus.Publish(context.Background(), NewEvent(EventTypeSessionUnauthorized, SessionPayload{UserID: 7, Reason: "expired"}, "gateway"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "gateway", got.Source())
	assert.Equal(t, int64(7), got.Data().(SessionPayload).UserID)
	assert.False(t, got.Timestamp().IsZero())
}

func TestEventBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), NewEvent("nobody.listens", nil, "test")))
}

func TestEventBus_HandlersRunInOrder(t *testing.T) {
	bus := NewEventBus(nil)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		bus.Subscribe(EventTypeRouteChanged, func(ctx context.Context, event Event) error {
			order = append(order, i)
			return nil
		})
	}
	require.NoError(t, bus.Publish(context.Background(), NewEvent(EventTypeRouteChanged, "login", "navigator")))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestEventBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus(nil)
	boom := errors.New("boom")
	bang := errors.New("bang")
	var ran []string
	bus.Subscribe("ev", func(ctx context.Context, event Event) error {
		ran = append(ran, "first")
		return boom
	})
	bus.Subscribe("ev", func(ctx context.Context, event Event) error {
		ran = append(ran, "second")
		return nil
	})
	bus.Subscribe("ev", func(ctx context.Context, event Event) error {
		ran = append(ran, "third")
		return bang
	})

	err := bus.Publish(context.Background(), NewEvent("ev", nil, "test"))
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, bang)
	assert.Equal(t, []string{"first", "second", "third"}, ran)
}

func TestEventBus_HandlerMayPublish(t *testing.T) {
	bus := NewEventBus(nil)
	var routed bool
	bus.Subscribe(EventTypeSessionUnauthorized, func(ctx context.Context, event Event) error {
		return bus.Publish(ctx, NewEvent(EventTypeRouteChanged, RoutePayload{To: "login"}, "navigator"))
	})
	bus.Subscribe(EventTypeRouteChanged, func(ctx context.Context, event Event) error {
		routed = event.Data().(RoutePayload).To == "login"
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewEvent(EventTypeSessionUnauthorized, SessionPayload{}, "gateway")))
	assert.True(t, routed)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe("ev", func(ctx context.Context, event Event) error { return nil })
	assert.Equal(t, 1, bus.GetSubscriberCount("ev"))
	bus.Unsubscribe("ev")
	assert.Equal(t, 0, bus.GetSubscriberCount("ev"))
}
