package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/services"
	"github.com/yungbote/nurture-backend/internal/temporalx/resync"
)

type Services struct {
	Auth           services.AuthService
	CourseUnits    services.CourseUnitService
	Progress       services.ProgressService
	Recommendation services.RecommendationService
	UserProfile    services.UserProfileService
	CatalogSeed    services.CatalogSeedService

	// ResyncTrigger is the Temporal trigger when a client is configured,
	// otherwise an inline goroutine runner.
	ResyncTrigger services.ResyncTrigger
	inline        *services.InlineResyncTrigger
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")

	units := services.NewCourseUnitService(db, log, r.Course, clients.CatalogBus, cfg.UnitCache)
	reco := services.NewRecommendationService(db, log, r.Course, r.CourseProgress, r.Personality, r.UserProfile, units)

	out := Services{
		Auth:           services.NewAuthService(log, cfg.JWTSecretKey),
		CourseUnits:    units,
		Recommendation: reco,
		Progress:       services.NewProgressService(db, log, r.Course, r.CourseProgress, r.CourseUnitState, r.CourseReadLog, units),
		CatalogSeed:    services.NewCatalogSeedService(db, log, r.Course, r.Personality, units),
	}
	if clients.Temporal != nil {
		out.ResyncTrigger = resync.NewTrigger(log, clients.Temporal, cfg.Temporal.TaskQueue)
	} else {
		out.inline = services.NewInlineResyncTrigger(log, reco, cfg.ResyncTimeout)
		out.ResyncTrigger = out.inline
	}
	out.UserProfile = services.NewUserProfileService(db, log, r.UserProfile, r.Personality, out.ResyncTrigger)
	return out
}
