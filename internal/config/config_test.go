package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, 60, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 168, cfg.JWT.TTLHours)
	assert.Equal(t, "uploads", cfg.Storage.Bucket)
	assert.Equal(t, "https://pay.lojou.app/p/Kgs1c", cfg.Payment.CheckoutURL)
	assert.Equal(t, "templates", cfg.Export.TemplateDir)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/cv")
	t.Setenv("AI_SERVICE_URL", "http://ai:9000")
	t.Setenv("AI_TIMEOUT_SECONDS", "15")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("MINIO_BUCKET_NAME", "cv-files")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "postgres://u:p@db:5432/cv", cfg.Database.DSN)
	assert.Equal(t, "http://ai:9000", cfg.AI.ServiceURL)
	assert.Equal(t, 15, cfg.AI.TimeoutSeconds)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, "cv-files", cfg.Storage.Bucket)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
}
