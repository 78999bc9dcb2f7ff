package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHubDeliversOnlyToOrderRoom(t *testing.T) {
	hub := NewMessageHub(4)
	orderA, orderB := uuid.New(), uuid.New()

	subA := hub.Subscribe(orderA, uuid.New())
	subB := hub.Subscribe(orderB, uuid.New())
	defer subA.Close()
	defer subB.Close()

	hub.Publish(orderA, HubEvent{Type: EventMessageNew, Data: "hello"})

	event := <-subA.Events()
	assert.Equal(t, EventMessageNew, event.Type)
	assert.Equal(t, "hello", event.Data)
	assert.Empty(t, subB.Events())
}

func TestHubDropsEventsForFullSubscriber(t *testing.T) {
	hub := NewMessageHub(1)
	orderID := uuid.New()
	sub := hub.Subscribe(orderID, uuid.New())
	defer sub.Close()

	hub.Publish(orderID, HubEvent{Type: EventMessageNew, Data: 1})
	hub.Publish(orderID, HubEvent{Type: EventMessageNew, Data: 2})

	assert.Len(t, sub.Events(), 1)
	assert.Equal(t, 1, (<-sub.Events()).Data)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	hub := NewMessageHub(0)
	orderID := uuid.New()
	sub := hub.Subscribe(orderID, uuid.New())

	sub.Close()
	sub.Close()

	_, open := <-sub.Events()
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers(orderID))

	// Publishing to an empty room is a no-op.
	hub.Publish(orderID, HubEvent{Type: EventOrderStatus})
}
