package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolance/prolance-backend/internal/models"
)

func seedGig(t *testing.T, s *MemoryStore, sellerID uuid.UUID, title string) *models.Gig {
	t.Helper()
	gig := &models.Gig{
		SellerID:     sellerID,
		Title:        title,
		Description:  "A perfectly adequate description of the service on offer here.",
		Price:        2000,
		CategoryID:   uuid.New(),
		CoverImage:   "https://example.com/cover.png",
		DeliveryTime: 3,
	}
	require.NoError(t, s.CreateGig(context.Background(), gig))
	return gig
}

func TestMemoryListGigsFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seller := uuid.New()

	logo := seedGig(t, s, seller, "Professional Logo Design")
	site := seedGig(t, s, uuid.New(), "WordPress Website Build")

	gigs, err := s.ListGigs(ctx, GigFilter{Search: "LOGO"})
	require.NoError(t, err)
	require.Len(t, gigs, 1)
	assert.Equal(t, logo.ID, gigs[0].ID)

	gigs, err = s.ListGigs(ctx, GigFilter{CategoryID: &site.CategoryID})
	require.NoError(t, err)
	require.Len(t, gigs, 1)
	assert.Equal(t, site.ID, gigs[0].ID)

	gigs, err = s.ListGigs(ctx, GigFilter{Search: "design", CategoryID: &site.CategoryID})
	require.NoError(t, err)
	assert.Empty(t, gigs)

	gigs, err = s.ListGigs(ctx, GigFilter{SellerID: &seller})
	require.NoError(t, err)
	require.Len(t, gigs, 1)

	gigs, err = s.ListGigs(ctx, GigFilter{})
	require.NoError(t, err)
	require.Len(t, gigs, 2)
	assert.Equal(t, site.ID, gigs[0].ID, "newest first")
}

func TestMemoryCounters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gig := seedGig(t, s, uuid.New(), "Professional Logo Design")

	for i := 0; i < 3; i++ {
		require.NoError(t, s.IncrementGigClicks(ctx, gig.ID))
	}
	require.NoError(t, s.IncrementGigImpressions(ctx, []uuid.UUID{gig.ID, gig.ID, uuid.New()}))

	got, err := s.GetGig(ctx, gig.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Clicks)
	assert.EqualValues(t, 1, got.Impressions)

	assert.ErrorIs(t, s.IncrementGigClicks(ctx, uuid.New()), ErrNotFound)
}

func TestMemoryListOrdersForUserIsUnion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	user := uuid.New()

	ownGig := seedGig(t, s, user, "Professional Logo Design")
	otherGig := seedGig(t, s, uuid.New(), "WordPress Website Build")

	bought := &models.Order{GigID: otherGig.ID, BuyerID: user, Price: 2000}
	sold := &models.Order{GigID: ownGig.ID, BuyerID: uuid.New(), Price: 2000}
	unrelated := &models.Order{GigID: otherGig.ID, BuyerID: uuid.New(), Price: 2000}
	for _, o := range []*models.Order{bought, sold, unrelated} {
		require.NoError(t, s.CreateOrder(ctx, o))
	}

	orders, err := s.ListOrdersForUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, sold.ID, orders[0].ID)
	assert.Equal(t, bought.ID, orders[1].ID)
}

func TestMemoryUpdateOrderStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	order := &models.Order{GigID: uuid.New(), BuyerID: uuid.New()}
	require.NoError(t, s.CreateOrder(ctx, order))
	assert.Equal(t, models.OrderStatusPending, order.Status)

	updated, err := s.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, updated.Status)

	_, err = s.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.UpdateOrderStatus(ctx, uuid.New(), models.OrderStatusPending, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListMessagesPagination(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	orderID := uuid.New()
	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, s.CreateMessage(ctx, &models.Message{OrderID: orderID, SenderID: uuid.New(), Content: content}))
	}
	require.NoError(t, s.CreateMessage(ctx, &models.Message{OrderID: uuid.New(), SenderID: uuid.New(), Content: "elsewhere"}))

	all, total, err := s.ListMessages(ctx, orderID, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].Content)
	assert.True(t, all[1].CreatedAt.After(all[0].CreatedAt))

	page, total, err := s.ListMessages(ctx, orderID, Page{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "three", page[0].Content)

	page, _, err = s.ListMessages(ctx, orderID, Page{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, _, err = s.ListMessages(ctx, orderID, Page{Offset: -50, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "one", page[0].Content)

	page, _, err = s.ListMessages(ctx, orderID, Page{Offset: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestMemoryTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(tx Store) error {
		require.NoError(t, tx.CreateOrder(ctx, &models.Order{GigID: uuid.New(), BuyerID: uuid.New()}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, err := s.ListOrdersForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, s.data.orders)
}

func TestMemoryDuplicateUserEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateUser(ctx, &models.User{Name: "Ada", Email: "ada@example.com"}))
	err := s.CreateUser(ctx, &models.User{Name: "Ada", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, UniqueIDs([]uuid.UUID{a, uuid.Nil, b, a}))
}
