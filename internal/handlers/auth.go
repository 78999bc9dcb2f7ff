// internal/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prolance/prolance-backend/internal/config"
	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/services"
	"github.com/prolance/prolance-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	session     config.SessionConfig
	ttlSeconds  int
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     cfg.Session,
		ttlSeconds:  cfg.JWT.AccessTokenTTL * 3600,
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, authResponse.AccessToken, h.ttlSeconds)
	utils.CreatedResponse(c, authResponse)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, authResponse.AccessToken, h.ttlSeconds)
	utils.SuccessResponse(c, authResponse)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	// Tokens are stateless; clearing the cookie ends the browser session.
	h.setSessionCookie(c, "", -1)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLogoutSuccess),
	})
}

// GET /api/auth/user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, token, maxAge, "/", "", h.session.Secure, true)
}
