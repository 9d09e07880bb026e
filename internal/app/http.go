package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/http"
	httpH "github.com/yungbote/nurture-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nurture-backend/internal/http/middleware"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health         *httpH.HealthHandler
	Progress       *httpH.ProgressHandler
	Recommendation *httpH.RecommendationHandler
	Profile        *httpH.ProfileHandler
	Course         *httpH.CourseHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:         httpH.NewHealthHandler(pinger),
		Progress:       httpH.NewProgressHandler(services.Progress),
		Recommendation: httpH.NewRecommendationHandler(services.Recommendation),
		Profile:        httpH.NewProfileHandler(services.UserProfile),
		Course:         httpH.NewCourseHandler(services.CourseUnits),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                   log,
		ServiceName:           serviceName,
		CORSOrigins:           cfg.CORSOrigins,
		MetricsEnabled:        cfg.MetricsEnabled,
		TracingEnabled:        cfg.Otel.Enabled,
		AuthMiddleware:        middleware.Auth,
		ProgressHandler:       handlers.Progress,
		RecommendationHandler: handlers.Recommendation,
		ProfileHandler:        handlers.Profile,
		CourseHandler:         handlers.Course,
		HealthHandler:         handlers.Health,
	})
}
