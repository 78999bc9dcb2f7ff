// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prolance/prolance-backend/internal/config"
	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/models"
	"github.com/prolance/prolance-backend/internal/store"
	"github.com/prolance/prolance-backend/internal/utils"
)

// Notifier is told about marketplace events after they are committed.
// Implementations must not block the caller.
type Notifier interface {
	UserRegistered(user *models.User)
	OrderPlaced(order *models.Order, gig *models.Gig)
	OrderStatusChanged(order *models.Order, gig *models.Gig, actorID uuid.UUID)
	MessagePosted(order *models.Order, gig *models.Gig, message *models.Message)
}

// Publisher fans out live events to subscribers of an order.
type Publisher interface {
	Publish(orderID uuid.UUID, event HubEvent)
}

type OrderService struct {
	store     store.Store
	cfg       *config.Config
	notifier  Notifier
	publisher Publisher
}

type CreateOrderRequest struct {
	GigID        string `json:"gigId" validate:"required,uuid"`
	Requirements string `json:"requirements,omitempty" validate:"max=5000"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress delivered completed cancelled"`
}

// OrderView is an order with the gig it was placed on.
type OrderView struct {
	models.Order
	GigInfo *models.Gig `json:"gig"`
}

type OrderDetail struct {
	OrderView
	Messages []MessageView `json:"messages"`
}

func NewOrderService(st store.Store, cfg *config.Config, notifier Notifier, publisher Publisher) *OrderService {
	return &OrderService{
		store:     st,
		cfg:       cfg,
		notifier:  notifier,
		publisher: publisher,
	}
}

// CalculateCommission returns percent of price, rounded to the nearest
// minor unit.
func CalculateCommission(price int64, percent float64) int64 {
	return int64(math.Round(float64(price) * percent / 100))
}

func (s *OrderService) CreateOrder(ctx context.Context, buyerID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	gigID := uuid.MustParse(req.GigID)

	var (
		order *models.Order
		gig   *models.Gig
	)
	err := s.store.WithTransaction(ctx, func(tx store.Store) error {
		var err error
		gig, err = tx.GetGigForUpdate(ctx, gigID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrGigNotFound
			}
			return fmt.Errorf("failed to load gig: %w", err)
		}

		if gig.SellerID == buyerID {
			return &ValidationError{Field: "gigId", Key: i18n.KeyGigOwnOrder}
		}

		order = &models.Order{
			GigID:         gig.ID,
			BuyerID:       buyerID,
			Price:         gig.Price,
			CommissionFee: CalculateCommission(gig.Price, s.cfg.Marketplace.CommissionPercent),
			Status:        models.OrderStatusPending,
			Requirements:  strings.TrimSpace(req.Requirements),
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"gig_id":   gig.ID,
		"buyer_id": buyerID,
		"price":    order.Price,
	}).Info("Order placed")

	if s.notifier != nil {
		s.notifier.OrderPlaced(order, gig)
	}

	return order, nil
}

// ListOrders returns orders the user bought or sold, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	orders, err := s.store.ListOrdersForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	gigIDs := make([]uuid.UUID, len(orders))
	for i := range orders {
		gigIDs[i] = orders[i].GigID
	}
	gigs, err := s.store.GigsByIDs(ctx, store.UniqueIDs(gigIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load gigs: %w", err)
	}
	gigByID := make(map[uuid.UUID]*models.Gig, len(gigs))
	for i := range gigs {
		gigByID[gigs[i].ID] = &gigs[i]
	}

	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = OrderView{Order: o, GigInfo: gigByID[o.GigID]}
	}
	return views, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id, callerID uuid.UUID) (*OrderDetail, error) {
	order, gig, _, err := loadParticipantOrder(ctx, s.store, id, callerID)
	if err != nil {
		return nil, err
	}

	messages, _, err := s.store.ListMessages(ctx, order.ID, store.Page{})
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	thread, err := enrichMessages(ctx, s.store, messages)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{
		OrderView: OrderView{Order: *order, GigInfo: gig},
		Messages:  thread,
	}, nil
}

// UpdateOrderStatus applies a status change requested by one of the order's
// participants. The write only succeeds if the order still has the status
// the decision was made on.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, callerID uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	next := models.OrderStatus(req.Status)

	order, gig, role, err := loadParticipantOrder(ctx, s.store, id, callerID)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, next, role) {
		return nil, &InvalidTransitionError{From: order.Status, To: next}
	}

	updated, err := s.store.UpdateOrderStatus(ctx, order.ID, order.Status, next)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, &InvalidTransitionError{From: order.Status, To: next}
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": updated.ID,
		"from":     order.Status,
		"to":       updated.Status,
		"actor_id": callerID,
		"role":     role,
	}).Info("Order status changed")

	if s.publisher != nil {
		s.publisher.Publish(updated.ID, HubEvent{Type: EventOrderStatus, Data: updated})
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(updated, gig, callerID)
	}

	return updated, nil
}

// loadParticipantOrder loads an order and its gig and resolves the caller's
// role. Non-participants get ErrForbidden.
func loadParticipantOrder(ctx context.Context, st store.Store, orderID, userID uuid.UUID) (*models.Order, *models.Gig, models.Role, error) {
	order, err := st.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, models.RoleNone, ErrOrderNotFound
		}
		return nil, nil, models.RoleNone, fmt.Errorf("failed to load order: %w", err)
	}

	gig, err := st.GetGig(ctx, order.GigID)
	if err != nil {
		return nil, nil, models.RoleNone, fmt.Errorf("failed to load gig %s of order %s: %w", order.GigID, order.ID, err)
	}

	role := order.RoleOf(userID, gig.SellerID)
	if role == models.RoleNone {
		return nil, nil, models.RoleNone, ErrForbidden
	}

	return order, gig, role, nil
}
