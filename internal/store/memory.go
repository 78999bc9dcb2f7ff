// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prolance/prolance-backend/internal/models"
)

// MemoryStore keeps everything in process memory. It backs tests and
// STORE_DRIVER=memory for local development. Transactions take the write
// lock for their whole duration and restore a snapshot on error.
type MemoryStore struct {
	mu   *sync.RWMutex
	data *memoryData
	inTx bool
}

type memoryData struct {
	categories map[uuid.UUID]models.Category
	gigs       map[uuid.UUID]models.Gig
	orders     map[uuid.UUID]models.Order
	messages   []models.Message
	users      map[uuid.UUID]models.User
	auditLogs  []models.AuditLog
	lastTime   time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.RWMutex{},
		data: &memoryData{
			categories: make(map[uuid.UUID]models.Category),
			gigs:       make(map[uuid.UUID]models.Gig),
			orders:     make(map[uuid.UUID]models.Order),
			users:      make(map[uuid.UUID]models.User),
		},
	}
}

func (d *memoryData) clone() *memoryData {
	cp := &memoryData{
		categories: make(map[uuid.UUID]models.Category, len(d.categories)),
		gigs:       make(map[uuid.UUID]models.Gig, len(d.gigs)),
		orders:     make(map[uuid.UUID]models.Order, len(d.orders)),
		messages:   append([]models.Message(nil), d.messages...),
		users:      make(map[uuid.UUID]models.User, len(d.users)),
		auditLogs:  append([]models.AuditLog(nil), d.auditLogs...),
		lastTime:   d.lastTime,
	}
	for k, v := range d.categories {
		cp.categories[k] = v
	}
	for k, v := range d.gigs {
		cp.gigs[k] = v
	}
	for k, v := range d.orders {
		cp.orders[k] = v
	}
	for k, v := range d.users {
		cp.users[k] = v
	}
	return cp
}

// now hands out strictly increasing timestamps so creation order is
// preserved even when two records land in the same clock tick.
func (d *memoryData) now() time.Time {
	t := time.Now().UTC()
	if !t.After(d.lastTime) {
		t = d.lastTime.Add(time.Microsecond)
	}
	d.lastTime = t
	return t
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &MemoryStore{mu: s.mu, data: s.data, inTx: true}

	defer func() {
		if r := recover(); r != nil {
			*s.data = *snapshot
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// Categories

func (s *MemoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	defer s.rlock()()
	categories := make([]models.Category, 0, len(s.data.categories))
	for _, c := range s.data.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *MemoryStore) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	defer s.rlock()()
	c, ok := s.data.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	defer s.rlock()()
	categories := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.data.categories[id]; ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (s *MemoryStore) CreateCategory(ctx context.Context, category *models.Category) error {
	defer s.lock()()
	for _, c := range s.data.categories {
		if c.Slug == category.Slug {
			return ErrDuplicate
		}
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = s.data.now()
	s.data.categories[category.ID] = *category
	return nil
}

func (s *MemoryStore) CountCategories(ctx context.Context) (int64, error) {
	defer s.rlock()()
	return int64(len(s.data.categories)), nil
}

// Gigs

func (s *MemoryStore) ListGigs(ctx context.Context, filter GigFilter) ([]models.Gig, error) {
	defer s.rlock()()
	search := strings.ToLower(filter.Search)

	gigs := make([]models.Gig, 0)
	for _, g := range s.data.gigs {
		if search != "" &&
			!strings.Contains(strings.ToLower(g.Title), search) &&
			!strings.Contains(strings.ToLower(g.Description), search) {
			continue
		}
		if filter.CategoryID != nil && g.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.SellerID != nil && g.SellerID != *filter.SellerID {
			continue
		}
		gigs = append(gigs, g)
	}
	sort.Slice(gigs, func(i, j int) bool { return gigs[i].CreatedAt.After(gigs[j].CreatedAt) })
	return gigs, nil
}

func (s *MemoryStore) GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	defer s.rlock()()
	g, ok := s.data.gigs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (s *MemoryStore) GetGigForUpdate(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	return s.GetGig(ctx, id)
}

func (s *MemoryStore) GigsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Gig, error) {
	defer s.rlock()()
	gigs := make([]models.Gig, 0, len(ids))
	for _, id := range ids {
		if g, ok := s.data.gigs[id]; ok {
			gigs = append(gigs, g)
		}
	}
	return gigs, nil
}

func (s *MemoryStore) CreateGig(ctx context.Context, gig *models.Gig) error {
	defer s.lock()()
	if gig.ID == uuid.Nil {
		gig.ID = uuid.New()
	}
	gig.CreatedAt = s.data.now()
	gig.UpdatedAt = gig.CreatedAt
	s.data.gigs[gig.ID] = *gig
	return nil
}

func (s *MemoryStore) IncrementGigClicks(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	g, ok := s.data.gigs[id]
	if !ok {
		return ErrNotFound
	}
	g.Clicks++
	s.data.gigs[id] = g
	return nil
}

func (s *MemoryStore) IncrementGigImpressions(ctx context.Context, ids []uuid.UUID) error {
	defer s.lock()()
	for _, id := range UniqueIDs(ids) {
		if g, ok := s.data.gigs[id]; ok {
			g.Impressions++
			s.data.gigs[id] = g
		}
	}
	return nil
}

// Orders

func (s *MemoryStore) CreateOrder(ctx context.Context, order *models.Order) error {
	defer s.lock()()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = s.data.now()
	order.UpdatedAt = order.CreatedAt
	s.data.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	defer s.rlock()()
	o, ok := s.data.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *MemoryStore) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	defer s.rlock()()
	orders := make([]models.Order, 0)
	for _, o := range s.data.orders {
		if o.BuyerID == userID {
			orders = append(orders, o)
			continue
		}
		if g, ok := s.data.gigs[o.GigID]; ok && g.SellerID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (*models.Order, error) {
	defer s.lock()()
	o, ok := s.data.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.Status != from {
		return nil, ErrConflict
	}
	o.Status = to
	o.UpdatedAt = s.data.now()
	s.data.orders[id] = o
	return &o, nil
}

// Messages

func (s *MemoryStore) CreateMessage(ctx context.Context, message *models.Message) error {
	defer s.lock()()
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.CreatedAt = s.data.now()
	s.data.messages = append(s.data.messages, *message)
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, orderID uuid.UUID, page Page) ([]models.Message, int64, error) {
	defer s.rlock()()
	all := make([]models.Message, 0)
	for _, m := range s.data.messages {
		if m.OrderID == orderID {
			all = append(all, m)
		}
	}
	total := int64(len(all))

	if page.Limit <= 0 {
		return all, total, nil
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []models.Message{}, total, nil
	}
	end := len(all)
	if page.Limit < end-offset {
		end = offset + page.Limit
	}
	return all[offset:end], total, nil
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.data.now()
	user.UpdatedAt = user.CreatedAt
	s.data.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer s.rlock()()
	u, ok := s.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.rlock()()
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	defer s.rlock()()
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.data.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// Audit

func (s *MemoryStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	defer s.lock()()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = s.data.now()
	s.data.auditLogs = append(s.data.auditLogs, *log)
	return nil
}

// AuditLogs returns a copy of every recorded audit entry.
func (s *MemoryStore) AuditLogs() []models.AuditLog {
	defer s.rlock()()
	return append([]models.AuditLog(nil), s.data.auditLogs...)
}
