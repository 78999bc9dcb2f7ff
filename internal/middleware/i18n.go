// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prolance/prolance-backend/internal/i18n"
)

// I18nMiddleware stores the caller's preferred supported locale under "lang".
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return func(c *gin.Context) {
		c.Set("lang", preferredLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// preferredLanguage walks a header like "zh-TW,zh;q=0.9,en;q=0.8" in order
// and returns the first supported locale.
func preferredLanguage(header, defaultLang string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if tag == "" {
			continue
		}

		// Convert common language codes
		switch tag {
		case "zh-TW", "zh-Hant", "zh-Hant-TW", "zh_TW", "zh-HK":
			tag = "zh_TW"
		default:
			tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		}

		if i18n.IsSupported(tag) {
			return tag
		}
	}
	return defaultLang
}
