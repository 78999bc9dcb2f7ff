// internal/store/gorm.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prolance/prolance-backend/internal/database"
	"github.com/prolance/prolance-backend/internal/models"
)

// GormStore implements Store on top of PostgreSQL through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// Categories

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) CategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// Gigs

func (s *GormStore) ListGigs(ctx context.Context, filter GigFilter) ([]models.Gig, error) {
	query := s.db.WithContext(ctx).Model(&models.Gig{})

	if filter.Search != "" {
		searchTerm := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", searchTerm, searchTerm)
	}

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}

	var gigs []models.Gig
	if err := query.Order("created_at DESC").Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch gigs: %w", err)
	}
	return gigs, nil
}

func (s *GormStore) GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	if err := s.db.WithContext(ctx).First(&gig, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &gig, nil
}

func (s *GormStore) GetGigForUpdate(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	if err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&gig, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &gig, nil
}

func (s *GormStore) GigsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Gig, error) {
	var gigs []models.Gig
	if len(ids) == 0 {
		return gigs, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch gigs: %w", err)
	}
	return gigs, nil
}

func (s *GormStore) CreateGig(ctx context.Context, gig *models.Gig) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(gig).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore) IncrementGigClicks(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Gig{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment clicks: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) IncrementGigImpressions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Gig{}).Where("id IN ?", ids).
		UpdateColumn("impressions", gorm.Expr("impressions + 1")).Error; err != nil {
		return fmt.Errorf("failed to increment impressions: %w", err)
	}
	return nil
}

// Orders

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	db := s.db.WithContext(ctx)
	sellerGigs := db.Model(&models.Gig{}).Select("id").Where("seller_id = ?", userID)

	var orders []models.Order
	if err := db.Where("buyer_id = ? OR gig_id IN (?)", userID, sellerGigs).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (*models.Order, error) {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := s.GetOrder(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return s.GetOrder(ctx, id)
}

// Messages

func (s *GormStore) CreateMessage(ctx context.Context, message *models.Message) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore) ListMessages(ctx context.Context, orderID uuid.UUID, page Page) ([]models.Message, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Message{}).Where("order_id = ?", orderID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query = query.Order("created_at ASC")
	if page.Limit > 0 {
		query = query.Offset(page.Offset).Limit(page.Limit)
	}

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, total, nil
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

// Audit

func (s *GormStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

// translate maps driver and gorm errors onto the store's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
