package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("COMMISSION_PERCENT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Marketplace.CommissionPercent)
	assert.Equal(t, "pgx", cfg.Database.DriverName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("COMMISSION_PERCENT", "12.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SESSION_COOKIE_SECURE", "TRUE")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 12.5, cfg.Marketplace.CommissionPercent)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Session.Secure)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		Store:       StoreConfig{Driver: "postgres"},
		JWT:         JWTConfig{SecretKey: defaultJWTSecret},
		Database:    DatabaseConfig{Password: "secret"},
	}
	assert.Error(t, cfg.Validate(), "default secret in production")

	cfg.JWT.SecretKey = "real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.Store.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.Store.Driver = "memory"
	cfg.Marketplace.CommissionPercent = 150
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "prolance", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=prolance sslmode=disable TimeZone=UTC", d.DSN())
}
