package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/data/repos"
	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/observability"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/realtime"
	"github.com/yungbote/nurture-backend/internal/realtime/bus"
)

const (
	DefaultUnitCacheSize = 1024
	DefaultUnitCacheTTL  = 10 * time.Minute

	backfillBatchSize = 100
	unitLoadTimeout   = 10 * time.Second
)

// UnitAssignment counts what AssignUnitUUIDs did to a course's page breaks.
type UnitAssignment struct {
	Total           int `json:"total"`
	Assigned        int `json:"assigned"`
	Kept            int `json:"kept"`
	DuplicatesFixed int `json:"duplicates_fixed"`
}

func (a UnitAssignment) Changed() bool { return a.Assigned > 0 }

// AssignUnitUUIDs gives every page break a unique, non-empty UnitUUID. A
// repeat of an earlier id is replaced, so the first occurrence keeps it.
func AssignUnitUUIDs(blocks types.ContentBlocks) UnitAssignment {
	var out UnitAssignment
	seen := map[string]struct{}{}
	for _, pb := range blocks.PageBreaks() {
		out.Total++
		id := pb.UnitUUID
		if id != "" {
			if _, dup := seen[id]; dup {
				out.DuplicatesFixed++
				id = ""
			}
		}
		if id == "" {
			id = uuid.NewString()
			pb.UnitUUID = id
			out.Assigned++
		} else {
			out.Kept++
		}
		seen[id] = struct{}{}
	}
	return out
}

type BackfillReport struct {
	Scanned         int `json:"scanned"`
	Updated         int `json:"updated"`
	Assigned        int `json:"assigned"`
	DuplicatesFixed int `json:"duplicates_fixed"`
	Failed          int `json:"failed"`
}

type UnitCacheConfig struct {
	Size int
	TTL  time.Duration
}

// CourseUnitService reads and writes the page-break identities of courses.
// Reads are memoized; every write goes through AssignUnitUUIDs and evicts
// the course on all instances.
type CourseUnitService interface {
	UnitIdentifiers(ctx context.Context, courseID uuid.UUID) ([]string, error)
	CreateCourse(ctx context.Context, course *types.Course, blocks types.ContentBlocks) (*types.Course, UnitAssignment, error)
	SaveCourseContent(ctx context.Context, courseID uuid.UUID, blocks types.ContentBlocks) (*types.Course, UnitAssignment, error)
	BackfillUnitUUIDs(ctx context.Context) (BackfillReport, error)
	Invalidate(ctx context.Context, courseID uuid.UUID)
	StartInvalidationListener(ctx context.Context) error
}

type courseUnitService struct {
	db         *gorm.DB
	log        *logger.Logger
	courses    repos.CourseRepo
	bus        bus.Bus
	cache      *expirable.LRU[uuid.UUID, []string]
	group      singleflight.Group
	instanceID string
}

func NewCourseUnitService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courses repos.CourseRepo,
	catalogBus bus.Bus,
	cfg UnitCacheConfig,
) CourseUnitService {
	size := cfg.Size
	if size <= 0 {
		size = DefaultUnitCacheSize
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultUnitCacheTTL
	}
	return &courseUnitService{
		db:         db,
		log:        baseLog.With("service", "CourseUnitService"),
		courses:    courses,
		bus:        catalogBus,
		cache:      expirable.NewLRU[uuid.UUID, []string](size, nil, ttl),
		instanceID: uuid.NewString(),
	}
}

// UnitIdentifiers returns the course's assigned unit ids in content order.
// Page breaks without an id are skipped.
func (s *courseUnitService) UnitIdentifiers(ctx context.Context, courseID uuid.UUID) ([]string, error) {
	if courseID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing course_id", ErrInvalidInput)
	}
	if ids, ok := s.cache.Get(courseID); ok {
		observability.RecordUnitCacheLookup(true)
		return append([]string(nil), ids...), nil
	}
	observability.RecordUnitCacheLookup(false)

	// The load is shared by every waiter, so one caller cancelling must not
	// fail the rest.
	v, err, _ := s.group.Do(courseID.String(), func() (interface{}, error) {
		if ids, ok := s.cache.Get(courseID); ok {
			return ids, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unitLoadTimeout)
		defer cancel()
		course, err := s.courses.GetByID(dbctx.Context{Ctx: loadCtx}, courseID)
		if err != nil {
			return nil, fmt.Errorf("%w: load course %s: %v", ErrDependency, courseID, err)
		}
		if course == nil {
			return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
		}
		blocks, err := course.Blocks()
		if err != nil {
			return nil, fmt.Errorf("%w: decode content of course %s: %v", ErrDependency, courseID, err)
		}
		ids := blocks.UnitUUIDs()
		s.cache.Add(courseID, ids)
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	ids, ok := v.([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected unit identifier type %T", v)
	}
	return append([]string(nil), ids...), nil
}

func (s *courseUnitService) CreateCourse(ctx context.Context, course *types.Course, blocks types.ContentBlocks) (*types.Course, UnitAssignment, error) {
	if course == nil {
		return nil, UnitAssignment{}, fmt.Errorf("%w: missing course", ErrInvalidInput)
	}
	stats := AssignUnitUUIDs(blocks)
	if err := course.SetBlocks(blocks); err != nil {
		return nil, stats, fmt.Errorf("%w: encode content: %v", ErrInvalidInput, err)
	}
	if _, err := s.courses.Create(dbctx.Context{Ctx: ctx}, []*types.Course{course}); err != nil {
		return nil, stats, err
	}
	s.logAssignment("create", course.ID, stats)
	return course, stats, nil
}

func (s *courseUnitService) SaveCourseContent(ctx context.Context, courseID uuid.UUID, blocks types.ContentBlocks) (*types.Course, UnitAssignment, error) {
	if courseID == uuid.Nil {
		return nil, UnitAssignment{}, fmt.Errorf("%w: missing course_id", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, UnitAssignment{}, err
	}
	if course == nil {
		return nil, UnitAssignment{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
	}

	stats := AssignUnitUUIDs(blocks)
	if err := course.SetBlocks(blocks); err != nil {
		return nil, stats, fmt.Errorf("%w: encode content: %v", ErrInvalidInput, err)
	}
	if err := s.courses.UpdateContent(dbc, courseID, course.Content); err != nil {
		return nil, stats, err
	}
	s.logAssignment("update", courseID, stats)
	s.Invalidate(ctx, courseID)
	return course, stats, nil
}

// BackfillUnitUUIDs walks the whole catalog and persists ids for page breaks
// that are missing one or share one. A course that fails is counted and
// skipped.
func (s *courseUnitService) BackfillUnitUUIDs(ctx context.Context) (BackfillReport, error) {
	var report BackfillReport
	dbc := dbctx.Context{Ctx: ctx}
	for offset := 0; ; offset += backfillBatchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		batch, err := s.courses.ListPage(dbc, offset, backfillBatchSize)
		if err != nil {
			return report, fmt.Errorf("list courses at offset %d: %w", offset, err)
		}
		for _, course := range batch {
			report.Scanned++
			blocks, err := course.Blocks()
			if err != nil {
				report.Failed++
				s.log.Warn("Skipping course with undecodable content", "course_id", course.ID, "error", err)
				continue
			}
			stats := AssignUnitUUIDs(blocks)
			if !stats.Changed() {
				continue
			}
			if err := course.SetBlocks(blocks); err != nil {
				report.Failed++
				s.log.Warn("Skipping course; re-encode failed", "course_id", course.ID, "error", err)
				continue
			}
			if err := s.courses.UpdateContent(dbc, course.ID, course.Content); err != nil {
				report.Failed++
				s.log.Error("Backfill write failed", "course_id", course.ID, "error", err)
				continue
			}
			report.Updated++
			report.Assigned += stats.Assigned
			report.DuplicatesFixed += stats.DuplicatesFixed
			s.logAssignment("backfill", course.ID, stats)
			s.Invalidate(ctx, course.ID)
		}
		if len(batch) < backfillBatchSize {
			break
		}
	}
	s.log.Info("Unit backfill finished",
		"scanned", report.Scanned,
		"updated", report.Updated,
		"assigned", report.Assigned,
		"duplicates_fixed", report.DuplicatesFixed,
		"failed", report.Failed,
	)
	return report, nil
}

// Invalidate evicts the course locally and tells the other instances.
func (s *courseUnitService) Invalidate(ctx context.Context, courseID uuid.UUID) {
	s.cache.Remove(courseID)
	observability.RecordCatalogInvalidation("local")
	if s.bus == nil {
		return
	}
	ev := realtime.CatalogEvent{
		Type:     realtime.EventCourseContentChanged,
		CourseID: courseID,
		Origin:   s.instanceID,
		At:       time.Now().UTC(),
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("Catalog invalidation publish failed", "course_id", courseID, "error", err)
	}
}

func (s *courseUnitService) StartInvalidationListener(ctx context.Context) error {
	if s.bus == nil {
		return errors.New("catalog bus not configured")
	}
	return s.bus.StartForwarder(ctx, func(ev realtime.CatalogEvent) {
		if ev.Origin == s.instanceID || ev.CourseID == uuid.Nil {
			return
		}
		s.cache.Remove(ev.CourseID)
		observability.RecordCatalogInvalidation("remote")
		s.log.Debug("Evicted course units on remote change", "course_id", ev.CourseID, "origin", ev.Origin)
	})
}

func (s *courseUnitService) logAssignment(phase string, courseID uuid.UUID, stats UnitAssignment) {
	if stats.Total == 0 {
		return
	}
	s.log.Info("Course page breaks normalized",
		"phase", phase,
		"course_id", courseID,
		"total", stats.Total,
		"assigned", stats.Assigned,
		"kept", stats.Kept,
		"duplicates_fixed", stats.DuplicatesFixed,
	)
}
