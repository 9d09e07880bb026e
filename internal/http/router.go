package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/nurture-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nurture-backend/internal/http/middleware"
	"github.com/yungbote/nurture-backend/internal/observability"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	MetricsEnabled bool
	TracingEnabled bool

	AuthMiddleware *httpMW.AuthMiddleware

	ProgressHandler       *httpH.ProgressHandler
	RecommendationHandler *httpH.RecommendationHandler
	ProfileHandler        *httpH.ProfileHandler
	CourseHandler         *httpH.CourseHandler
	HealthHandler         *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIDs())
	r.Use(httpMW.RequestLogger(cfg.Log))
	if cfg.MetricsEnabled {
		r.Use(httpMW.Metrics())
		r.GET("/metrics", gin.WrapH(observability.Handler()))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Progress
		if cfg.ProgressHandler != nil {
			protected.POST("/me/courses/:courseId/read", cfg.ProgressHandler.RecordRead)
		}

		// Recommendations
		if cfg.RecommendationHandler != nil {
			protected.GET("/my-recommend-course", cfg.RecommendationHandler.MyRecommendations)
		}

		// Profile
		if cfg.ProfileHandler != nil {
			protected.PUT("/me/profile/personality", cfg.ProfileHandler.SetPersonality)
		}

		// Catalog
		if cfg.CourseHandler != nil {
			protected.PUT("/courses/:courseId/content", cfg.CourseHandler.SaveContent)
			protected.GET("/courses/:courseId/units", cfg.CourseHandler.Units)
		}
	}
	return r
}
