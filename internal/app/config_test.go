package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("UNIT_CACHE_SIZE", "")
	t.Setenv("RESYNC_TIMEOUT_SECONDS", "")
	log, _ := logger.New("test")

	cfg := LoadConfig(log)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "defaultsecret", cfg.JWTSecretKey)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, services.DefaultUnitCacheSize, cfg.UnitCache.Size)
	assert.Equal(t, services.DefaultResyncTimeout, cfg.ResyncTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("UNIT_CACHE_TTL_SECONDS", "30")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	log, _ := logger.New("test")

	cfg := LoadConfig(log)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecretKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.UnitCache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}
