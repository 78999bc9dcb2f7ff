// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prolance/prolance-backend/internal/models"
	"github.com/prolance/prolance-backend/internal/store"
)

const maxAuditBody = 64 * 1024

var redactedFields = map[string]bool{
	"password": true,
	"token":    true,
}

// RequestLogger logs every request through logrus once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Milliseconds(),
			"ip":       c.ClientIP(),
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request processed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// AuditLogMiddleware records every mutating API request, with secrets
// removed from the stored request body.
func AuditLogMiddleware(audits store.AuditStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip reads and health checks
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		var requestData map[string]interface{}
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			// Only a prefix is captured; the handler still sees the whole body.
			prefix, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody))
			c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(prefix), c.Request.Body), c.Request.Body}
			if len(prefix) > 0 && len(prefix) < maxAuditBody {
				_ = json.Unmarshal(prefix, &requestData)
			}
		}

		c.Next()

		auditLog := &models.AuditLog{
			Action:       c.Request.Method + " " + c.FullPath(),
			ResourceType: extractResourceType(c.Request.URL.Path),
			StatusCode:   c.Writer.Status(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			NewValues:    models.JSONB(redact(requestData)),
		}
		if c.FullPath() == "" {
			auditLog.Action += c.Request.URL.Path
		}
		if len(auditLog.Action) > 100 {
			auditLog.Action = auditLog.Action[:100]
		}
		if userID, ok := c.Get("user_id"); ok {
			if id, ok := userID.(uuid.UUID); ok {
				auditLog.UserID = &id
			}
		}
		if resourceID, ok := extractResourceID(c.Request.URL.Path); ok {
			auditLog.ResourceID = &resourceID
		}

		// The request context may already be cancelled by the time we get here.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 5*time.Second)
		defer cancel()
		if err := audits.CreateAuditLog(ctx, auditLog); err != nil {
			logrus.WithError(err).Error("Failed to create audit log")
		}
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

func redact(data map[string]interface{}) map[string]interface{} {
	for key := range data {
		if redactedFields[strings.ToLower(key)] {
			data[key] = "[REDACTED]"
		}
	}
	return data
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(path string) (uuid.UUID, bool) {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if id, err := uuid.Parse(part); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}
