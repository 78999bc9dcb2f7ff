// internal/handlers/upload.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/services"
	"github.com/prolance/prolance-backend/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// POST /api/uploads/cover (multipart field "file")
func (h *UploadHandler) UploadCover(c *gin.Context) {
	sellerID, ok := currentUser(c)
	if !ok {
		return
	}
	lang := utils.GetLangFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		utils.FieldErrorResponse(c, "file", i18n.T(lang, i18n.KeyFileRequired))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.FieldErrorResponse(c, "file", i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadCover(c.Request.Context(), sellerID, file, header.Filename, header.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, result)
}
