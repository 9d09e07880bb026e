package app

import (
	"strings"
	"time"

	"github.com/yungbote/nurture-backend/internal/data/db"
	"github.com/yungbote/nurture-backend/internal/observability"
	"github.com/yungbote/nurture-backend/internal/platform/envutil"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/realtime/bus"
	"github.com/yungbote/nurture-backend/internal/services"
	"github.com/yungbote/nurture-backend/internal/temporalx"
)

const serviceName = "nurture-backend"

type Config struct {
	Port        string
	Environment string
	Version     string

	JWTSecretKey   string
	CORSOrigins    []string
	MetricsEnabled bool

	// RunWorker polls the Temporal resync queue in the API process.
	RunWorker     bool
	ResyncTimeout time.Duration

	Otel      observability.OtelConfig
	DB        db.Config
	Redis     bus.RedisConfig
	Temporal  temporalx.Config
	UnitCache services.UnitCacheConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:    splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),

		RunWorker:     envutil.Bool("TEMPORAL_WORKER_ENABLED", true),
		ResyncTimeout: envutil.Seconds("RESYNC_TIMEOUT_SECONDS", services.DefaultResyncTimeout),

		Otel: observability.LoadOtelConfig(),
		DB:   db.LoadConfig(),
		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Username: envutil.String("REDIS_USERNAME", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			TLS:      envutil.Bool("REDIS_TLS", false),
			Channel:  envutil.String("REDIS_CHANNEL", bus.DefaultChannel),
		},
		Temporal: temporalx.LoadConfig(),
		UnitCache: services.UnitCacheConfig{
			Size: envutil.Int("UNIT_CACHE_SIZE", services.DefaultUnitCacheSize),
			TTL:  envutil.Seconds("UNIT_CACHE_TTL_SECONDS", services.DefaultUnitCacheTTL),
		},
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; using an insecure development secret")
		cfg.JWTSecretKey = "defaultsecret"
	}
	cfg.Otel.ServiceName = serviceName
	cfg.Otel.Environment = cfg.Environment
	cfg.Otel.Version = cfg.Version
	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
