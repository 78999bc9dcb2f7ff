// internal/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/prolance/prolance-backend/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a conditional update matched no row
	// because the record changed underneath the caller.
	ErrConflict = errors.New("record changed concurrently")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// GigFilter narrows ListGigs. Empty fields do not filter.
type GigFilter struct {
	Search     string
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
}

// Page selects a window of an ordered result. Limit <= 0 means everything.
type Page struct {
	Offset int
	Limit  int
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	CountCategories(ctx context.Context) (int64, error)
}

type GigStore interface {
	ListGigs(ctx context.Context, filter GigFilter) ([]models.Gig, error)
	GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	// GetGigForUpdate reads the gig and locks its row until the enclosing
	// transaction ends.
	GetGigForUpdate(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	GigsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Gig, error)
	CreateGig(ctx context.Context, gig *models.Gig) error
	IncrementGigClicks(ctx context.Context, id uuid.UUID) error
	IncrementGigImpressions(ctx context.Context, ids []uuid.UUID) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// ListOrdersForUser returns orders the user bought plus orders placed on
	// gigs the user sells, newest first.
	ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	// UpdateOrderStatus moves the order from one status to another and
	// returns ErrConflict if its current status is no longer from.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (*models.Order, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	// ListMessages returns the order's messages oldest first and the total
	// number of messages on the order.
	ListMessages(ctx context.Context, orderID uuid.UUID, page Page) ([]models.Message, int64, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Store is the full storage capability handed to services.
type Store interface {
	CategoryStore
	GigStore
	OrderStore
	MessageStore
	UserStore
	AuditStore

	// WithTransaction runs fn against a store bound to a single atomic
	// transaction. The transaction is rolled back when fn returns an error.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}

// UniqueIDs drops zero and repeated ids, keeping first-seen order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
