// internal/models/audit.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records one mutating API request.
type AuditLog struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       *uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resourceType" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resourceId" gorm:"type:uuid;index"`
	StatusCode   int        `json:"statusCode"`
	NewValues    JSONB      `json:"newValues" gorm:"type:jsonb"`
	IPAddress    string     `json:"ipAddress" gorm:"size:45"`
	UserAgent    string     `json:"userAgent" gorm:"type:text"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"index"`
}
