// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/prolance/prolance-backend/internal/services"
	"github.com/prolance/prolance-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, categories)
}

// GET /api/gigs?search=&categoryId=&sellerId=
func (h *CatalogHandler) ListGigs(c *gin.Context) {
	params := services.GigSearchParams{Search: c.Query("search")}

	var ok bool
	if params.CategoryID, ok = queryID(c, "categoryId"); !ok {
		return
	}
	if params.SellerID, ok = queryID(c, "sellerId"); !ok {
		return
	}

	gigs, err := h.catalogService.ListGigs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gigs)
}

// GET /api/gigs/:id
func (h *CatalogHandler) GetGig(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gig, err := h.catalogService.GetGig(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gig)
}

// POST /api/gigs
func (h *CatalogHandler) CreateGig(c *gin.Context) {
	sellerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateGigRequest
	if !bindJSON(c, &req) {
		return
	}

	gig, err := h.catalogService.CreateGig(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, gig)
}
