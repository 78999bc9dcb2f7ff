// internal/services/message_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/models"
	"github.com/prolance/prolance-backend/internal/store"
	"github.com/prolance/prolance-backend/internal/utils"
)

const MaxMessageLength = 5000

type MessageService struct {
	store    store.Store
	hub      *MessageHub
	notifier Notifier
}

type CreateMessageRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Content string `json:"content"`
}

// MessageView is a message with its sender's public profile.
type MessageView struct {
	models.Message
	SenderProfile *models.PublicProfile `json:"sender"`
}

func NewMessageService(st store.Store, hub *MessageHub, notifier Notifier) *MessageService {
	return &MessageService{
		store:    st,
		hub:      hub,
		notifier: notifier,
	}
}

func (s *MessageService) CreateMessage(ctx context.Context, senderID uuid.UUID, req *CreateMessageRequest) (*MessageView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	content := strings.TrimSpace(req.Content)
	switch {
	case content == "":
		return nil, &ValidationError{Field: "content", Key: i18n.KeyMessageEmpty}
	case utils.RuneLen(content) > MaxMessageLength:
		return nil, &ValidationError{Field: "content", Key: i18n.KeyMessageTooLong, Args: []interface{}{MaxMessageLength}}
	}

	order, gig, _, err := loadParticipantOrder(ctx, s.store, uuid.MustParse(req.OrderID), senderID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		OrderID:  order.ID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.store.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	views, err := enrichMessages(ctx, s.store, []models.Message{*message})
	if err != nil {
		return nil, err
	}
	view := &views[0]

	if s.hub != nil {
		s.hub.Publish(order.ID, HubEvent{Type: EventMessageNew, Data: view})
	}
	if s.notifier != nil {
		s.notifier.MessagePosted(order, gig, message)
	}

	return view, nil
}

// ListMessages returns one page of the order's thread, oldest first, and the
// thread's total size.
func (s *MessageService) ListMessages(ctx context.Context, orderID, callerID uuid.UUID, params utils.PaginationParams) ([]MessageView, int64, error) {
	if _, _, _, err := loadParticipantOrder(ctx, s.store, orderID, callerID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.store.ListMessages(ctx, orderID, store.Page{
		Offset: params.Offset(),
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	views, err := enrichMessages(ctx, s.store, messages)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Subscribe opens a live feed of the order's events for a participant.
func (s *MessageService) Subscribe(ctx context.Context, orderID, callerID uuid.UUID) (*Subscription, error) {
	if _, _, _, err := loadParticipantOrder(ctx, s.store, orderID, callerID); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(orderID, callerID), nil
}

// enrichMessages attaches sender profiles with a single user lookup.
func enrichMessages(ctx context.Context, users store.UserStore, messages []models.Message) ([]MessageView, error) {
	senderIDs := make([]uuid.UUID, len(messages))
	for i := range messages {
		senderIDs[i] = messages[i].SenderID
	}

	senders, err := users.UsersByIDs(ctx, store.UniqueIDs(senderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load senders: %w", err)
	}
	profiles := make(map[uuid.UUID]*models.PublicProfile, len(senders))
	for i := range senders {
		profiles[senders[i].ID] = senders[i].Public()
	}

	views := make([]MessageView, len(messages))
	for i, m := range messages {
		views[i] = MessageView{Message: m, SenderProfile: profiles[m.SenderID]}
	}
	return views, nil
}
