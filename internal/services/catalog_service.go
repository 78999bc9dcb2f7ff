// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/models"
	"github.com/prolance/prolance-backend/internal/store"
	"github.com/prolance/prolance-backend/internal/utils"
)

type CatalogService struct {
	store store.Store
}

type CreateGigRequest struct {
	Title        string `json:"title" validate:"notblank,min=10,max=255"`
	Description  string `json:"description" validate:"notblank,min=50"`
	Price        int64  `json:"price" validate:"gte=500"`
	CategoryID   string `json:"categoryId" validate:"required,uuid"`
	CoverImage   string `json:"coverImage" validate:"required,url"`
	DeliveryTime int    `json:"deliveryTime" validate:"gte=1"`
}

type GigSearchParams struct {
	Search     string
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
}

// GigView is a gig with its seller's public profile and its category.
type GigView struct {
	models.Gig
	SellerProfile *models.PublicProfile `json:"seller"`
	CategoryInfo  *models.Category      `json:"category"`
}

type GigDetail struct {
	GigView
	Reviews []models.Review `json:"reviews"`
}

var defaultCategories = []models.Category{
	{Name: "Graphics & Design", Slug: "graphics-design", ImageURL: "https://images.unsplash.com/photo-1626785774573-4b799314346d?w=800&q=80"},
	{Name: "Digital Marketing", Slug: "digital-marketing", ImageURL: "https://images.unsplash.com/photo-1432888498266-38ffec3eaf0a?w=800&q=80"},
	{Name: "Writing & Translation", Slug: "writing-translation", ImageURL: "https://images.unsplash.com/photo-1455390582262-044cdead277a?w=800&q=80"},
	{Name: "Video & Animation", Slug: "video-animation", ImageURL: "https://images.unsplash.com/photo-1536240478700-b869070f9279?w=800&q=80"},
	{Name: "Programming & Tech", Slug: "programming-tech", ImageURL: "https://images.unsplash.com/photo-1587620962725-abab7fe55159?w=800&q=80"},
}

func NewCatalogService(st store.Store) *CatalogService {
	return &CatalogService{store: st}
}

// SeedCategories inserts the default categories when none exist.
func (s *CatalogService) SeedCategories(ctx context.Context) error {
	return s.store.WithTransaction(ctx, func(tx store.Store) error {
		count, err := tx.CountCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, c := range defaultCategories {
			category := c
			if err := tx.CreateCategory(ctx, &category); err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.Slug, err)
			}
		}

		logrus.WithField("count", len(defaultCategories)).Info("Seeded default categories")
		return nil
	})
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListGigs returns matching gigs newest first and counts one impression for
// every gig returned.
func (s *CatalogService) ListGigs(ctx context.Context, params GigSearchParams) ([]GigView, error) {
	gigs, err := s.store.ListGigs(ctx, store.GigFilter{
		Search:     strings.TrimSpace(params.Search),
		CategoryID: params.CategoryID,
		SellerID:   params.SellerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list gigs: %w", err)
	}

	if len(gigs) > 0 {
		ids := make([]uuid.UUID, len(gigs))
		for i := range gigs {
			ids[i] = gigs[i].ID
		}
		// A lost impression must not fail the listing.
		if err := s.store.IncrementGigImpressions(ctx, ids); err != nil {
			logrus.WithError(err).Warn("Failed to record gig impressions")
		} else {
			for i := range gigs {
				gigs[i].Impressions++
			}
		}
	}

	return s.enrichGigs(ctx, gigs)
}

// GetGig counts a click and returns the gig as stored after the increment.
func (s *CatalogService) GetGig(ctx context.Context, id uuid.UUID) (*GigDetail, error) {
	if err := s.store.IncrementGigClicks(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("failed to record gig click: %w", err)
	}

	gig, err := s.store.GetGig(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("failed to load gig: %w", err)
	}

	views, err := s.enrichGigs(ctx, []models.Gig{*gig})
	if err != nil {
		return nil, err
	}

	return &GigDetail{GigView: views[0], Reviews: []models.Review{}}, nil
}

func (s *CatalogService) CreateGig(ctx context.Context, sellerID uuid.UUID, req *CreateGigRequest) (*models.Gig, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	categoryID := uuid.MustParse(req.CategoryID)
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &ValidationError{Field: "categoryId", Key: i18n.KeyCategoryNotFound}
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	gig := &models.Gig{
		SellerID:     sellerID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   categoryID,
		CoverImage:   req.CoverImage,
		DeliveryTime: req.DeliveryTime,
	}

	if err := s.store.CreateGig(ctx, gig); err != nil {
		return nil, fmt.Errorf("failed to create gig: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"gig_id":    gig.ID,
		"seller_id": sellerID,
	}).Info("Gig created")

	return gig, nil
}

// enrichGigs attaches sellers and categories with one lookup per type.
func (s *CatalogService) enrichGigs(ctx context.Context, gigs []models.Gig) ([]GigView, error) {
	sellerIDs := make([]uuid.UUID, 0, len(gigs))
	categoryIDs := make([]uuid.UUID, 0, len(gigs))
	for _, g := range gigs {
		sellerIDs = append(sellerIDs, g.SellerID)
		categoryIDs = append(categoryIDs, g.CategoryID)
	}

	sellers, err := s.store.UsersByIDs(ctx, store.UniqueIDs(sellerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load sellers: %w", err)
	}
	categories, err := s.store.CategoriesByIDs(ctx, store.UniqueIDs(categoryIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	profiles := make(map[uuid.UUID]*models.PublicProfile, len(sellers))
	for i := range sellers {
		profiles[sellers[i].ID] = sellers[i].Public()
	}
	categoryByID := make(map[uuid.UUID]*models.Category, len(categories))
	for i := range categories {
		categoryByID[categories[i].ID] = &categories[i]
	}

	views := make([]GigView, len(gigs))
	for i, g := range gigs {
		views[i] = GigView{
			Gig:           g,
			SellerProfile: profiles[g.SellerID],
			CategoryInfo:  categoryByID[g.CategoryID],
		}
	}
	return views, nil
}
