// internal/config/database.go
package config

import (
	"fmt"
)

// DSN renders the key/value connection string understood by both pgx and
// lib/pq. Timestamps are exchanged in UTC.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
