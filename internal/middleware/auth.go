// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/utils"
)

// AuthRequired accepts a bearer token or the session cookie and stores the
// caller's id under "user_id".
func AuthRequired(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			utils.UnauthorizedResponse(c, "")
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthInvalidToken))
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func OptionalAuth(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c, cookieName); token != "" {
			// Set user info in context if token is valid
			if claims, err := utils.ValidateJWT(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	// Extract token from "Bearer <token>"
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil {
			return cookie
		}
	}
	return ""
}

func setIdentity(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", uuid.MustParse(claims.UserID))
	c.Set("user_name", claims.Name)
}
