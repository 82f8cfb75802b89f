package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAuditConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := LoadAuditConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, "0 */10 * * * *", cfg.Spec)
		assert.Equal(t, 15*time.Minute, cfg.MinAge)
	})

	t.Run("From environment", func(t *testing.T) {
		t.Setenv("ORPHAN_AUDIT_ENABLED", "false")
		t.Setenv("ORPHAN_AUDIT_MIN_AGE_MINUTES", "not-a-number")

		cfg := LoadAuditConfig()
		assert.False(t, cfg.Enabled)
		assert.Equal(t, 15*time.Minute, cfg.MinAge, "invalid values fall back")
	})
}

func TestLoadAuthConfig(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_TTL_HOURS", "8")

	cfg := LoadAuthConfig()
	assert.Equal(t, []byte(insecureJWTSecret), cfg.JWTSecret)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
}

func TestLoadCORSConfig(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", " https://shop.example.pk, ,https://admin.example.pk ")

	cfg := LoadCORSConfig()
	assert.Equal(t, []string{"https://shop.example.pk", "https://admin.example.pk"}, cfg.AllowOrigins)
}

func TestLoadSessionConfig(t *testing.T) {
	t.Setenv("SESSION_IDLE_MINUTES", "30")

	cfg := LoadSessionConfig()
	assert.Equal(t, 30*time.Minute, cfg.MaxIdle)
	assert.Equal(t, "0 */5 * * * *", cfg.SweepSpec)
}
