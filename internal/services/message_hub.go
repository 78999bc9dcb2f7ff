// internal/services/message_hub.go
package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventMessageNew  = "message:new"
	EventOrderStatus = "order:status"
)

type HubEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// MessageHub keeps one room of subscribers per order. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type MessageHub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*Subscription]struct{}
	buffer int
}

type Subscription struct {
	OrderID uuid.UUID
	UserID  uuid.UUID

	hub    *MessageHub
	events chan HubEvent
	once   sync.Once
}

func NewMessageHub(buffer int) *MessageHub {
	if buffer <= 0 {
		buffer = 16
	}
	return &MessageHub{
		rooms:  make(map[uuid.UUID]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *MessageHub) Subscribe(orderID, userID uuid.UUID) *Subscription {
	sub := &Subscription{
		OrderID: orderID,
		UserID:  userID,
		hub:     h,
		events:  make(chan HubEvent, h.buffer),
	}

	h.mu.Lock()
	room, ok := h.rooms[orderID]
	if !ok {
		room = make(map[*Subscription]struct{})
		h.rooms[orderID] = room
	}
	room[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *MessageHub) Publish(orderID uuid.UUID, event HubEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[orderID] {
		select {
		case sub.events <- event:
		default:
			logrus.WithFields(logrus.Fields{
				"order_id": orderID,
				"user_id":  sub.UserID,
				"type":     event.Type,
			}).Warn("Dropping live event for slow subscriber")
		}
	}
}

// Subscribers reports how many live connections watch the order.
func (h *MessageHub) Subscribers(orderID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orderID])
}

func (s *Subscription) Events() <-chan HubEvent {
	return s.events
}

// Close leaves the room and closes the event channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()

		if room, ok := h.rooms[s.OrderID]; ok {
			delete(room, s)
			if len(room) == 0 {
				delete(h.rooms, s.OrderID)
			}
		}
		close(s.events)
	})
}
