package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/data/repos"
	"github.com/yungbote/nurture-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/realtime/bus"
)

type harness struct {
	ctx         context.Context
	db          *gorm.DB
	courses     repos.CourseRepo
	progressRp  repos.CourseProgressRepo
	ledger      repos.CourseUnitStateRepo
	readLog     repos.CourseReadLogRepo
	personality repos.PersonalityRepo
	profiles    repos.UserProfileRepo
	bus         bus.Bus

	units    CourseUnitService
	progress ProgressService
	reco     RecommendationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	h := &harness{
		ctx:         context.Background(),
		db:          db,
		courses:     repos.NewCourseRepo(db, log),
		progressRp:  repos.NewCourseProgressRepo(db, log),
		ledger:      repos.NewCourseUnitStateRepo(db, log),
		readLog:     repos.NewCourseReadLogRepo(db, log),
		personality: repos.NewPersonalityRepo(db, log),
		profiles:    repos.NewUserProfileRepo(db, log),
		bus:         bus.NewMemoryBus(),
	}
	t.Cleanup(func() { _ = h.bus.Close() })
	h.units = NewCourseUnitService(db, log, h.courses, h.bus, UnitCacheConfig{})
	h.progress = NewProgressService(db, log, h.courses, h.progressRp, h.ledger, h.readLog, h.units)
	h.reco = NewRecommendationService(db, log, h.courses, h.progressRp, h.personality, h.profiles, h.units)
	return h
}

func (h *harness) dbc() dbctx.Context { return dbctx.Context{Ctx: h.ctx} }

func (h *harness) row(t *testing.T, userID, courseID uuid.UUID) *types.CourseProgress {
	t.Helper()
	row, err := h.progressRp.GetByUserAndCourse(h.dbc(), userID, courseID)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if row == nil {
		t.Fatalf("no progress row for course %s", courseID)
	}
	return row
}

// withPersonality seeds a result whose picks are courses[i] at rank i+1 and
// points the user's profile at it.
func (h *harness) withPersonality(t *testing.T, userID uuid.UUID, picks ...*types.Course) *types.PersonalityResult {
	t.Helper()
	pr := testutil.SeedPersonalityResult(t, h.ctx, h.db, "result-"+uuid.NewString()[:8])
	for i, c := range picks {
		testutil.SeedPersonalityRecommendation(t, h.ctx, h.db, pr.ID, c.ID, testutil.PtrInt(i+1))
	}
	testutil.SeedUserProfile(t, h.ctx, h.db, userID, testutil.PtrUUID(pr.ID))
	return pr
}

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)
