package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/data/repos"
	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/observability"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

const (
	ResyncPhaseDemote  = "demote"
	ResyncPhasePromote = "promote"
)

type Recommendations struct {
	Courses        []*ProgressView
	AllCompleted   bool
	CompletedCount int64
	CatalogCount   int64
}

// PromoteReport summarizes the promote/create phase of a resync.
type PromoteReport struct {
	Picks            int `json:"picks"`
	Promoted         int `json:"promoted"`
	Created          int `json:"created"`
	SkippedCompleted int `json:"skipped_completed"`
	Failed           int `json:"failed"`
}

// RecommendationService maintains each user's "up next" queue of courses.
type RecommendationService interface {
	EnsureSeeded(ctx context.Context, userID uuid.UUID) error
	AddPersonalityPicks(ctx context.Context, userID uuid.UUID) error
	TopUpIfNeeded(ctx context.Context, userID uuid.UUID) error
	DemoteQueuedPersonalityPicks(ctx context.Context, userID uuid.UUID) (int, error)
	PromotePersonalityPicks(ctx context.Context, userID, resultID uuid.UUID) (PromoteReport, error)
	ResyncForPersonalityChange(ctx context.Context, userID, resultID uuid.UUID) error
	GetRecommendations(ctx context.Context, userID uuid.UUID) (*Recommendations, error)
}

type recommendationService struct {
	db          *gorm.DB
	log         *logger.Logger
	courses     repos.CourseRepo
	progress    repos.CourseProgressRepo
	personality repos.PersonalityRepo
	profiles    repos.UserProfileRepo
	units       CourseUnitService
}

func NewRecommendationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courses repos.CourseRepo,
	progress repos.CourseProgressRepo,
	personality repos.PersonalityRepo,
	profiles repos.UserProfileRepo,
	units CourseUnitService,
) RecommendationService {
	return &recommendationService{
		db:          db,
		log:         baseLog.With("service", "RecommendationService"),
		courses:     courses,
		progress:    progress,
		personality: personality,
		profiles:    profiles,
		units:       units,
	}
}

// EnsureSeeded gives a user with no progress rows their first queue: up to
// RecommendationQueueSize personality picks by rank, then catalog courses in
// natural order that are not among the picks.
func (s *recommendationService) EnsureSeeded(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}
	n, err := s.progress.CountByUser(dbc, userID)
	if err != nil {
		return fmt.Errorf("count progress: %w", err)
	}
	if n > 0 {
		return nil
	}

	picks, err := s.picksForUser(dbc, userID)
	if err != nil {
		return err
	}

	seeded := 0
	exclude := make([]uuid.UUID, 0, len(picks))
	for _, p := range picks {
		exclude = append(exclude, p.CourseID)
	}
	for _, p := range picks {
		if seeded >= types.RecommendationQueueSize {
			break
		}
		rank := p.Rank
		ok, err := s.createQueued(ctx, userID, p.CourseID, types.SourcePersonality, &rank)
		if err != nil {
			s.pickFailed("seed_pick", userID, p.CourseID, err)
			continue
		}
		if ok {
			seeded++
		}
	}

	if need := types.RecommendationQueueSize - seeded; need > 0 {
		ids, err := s.courses.ListIDsOrdered(dbc, exclude, need)
		if err != nil {
			return fmt.Errorf("%w: list catalog: %v", ErrDependency, err)
		}
		for _, courseID := range ids {
			if _, err := s.createQueued(ctx, userID, courseID, types.SourceSystem, nil); err != nil {
				s.pickFailed("seed_fill", userID, courseID, err)
			}
		}
	}
	s.log.Debug("Seeded recommendation queue", "user_id", userID, "personality", seeded)
	return nil
}

// AddPersonalityPicks merges the user's current picks into their rows:
// missing picks are created, unfinished rows below personality priority are
// promoted, everything else is left alone.
func (s *recommendationService) AddPersonalityPicks(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}
	picks, err := s.picksForUser(dbc, userID)
	if err != nil {
		return err
	}
	if len(picks) == 0 {
		return nil
	}

	courseIDs := make([]uuid.UUID, 0, len(picks))
	for _, p := range picks {
		courseIDs = append(courseIDs, p.CourseID)
	}
	existing, err := s.progress.GetByUserAndCourses(dbc, userID, courseIDs)
	if err != nil {
		return fmt.Errorf("load progress for picks: %w", err)
	}
	byCourse := make(map[uuid.UUID]*types.CourseProgress, len(existing))
	for _, row := range existing {
		byCourse[row.CourseID] = row
	}

	for _, p := range picks {
		rank := p.Rank
		row, ok := byCourse[p.CourseID]
		if !ok {
			if _, err := s.createQueued(ctx, userID, p.CourseID, types.SourcePersonality, &rank); err != nil {
				s.pickFailed("add_pick", userID, p.CourseID, err)
			}
			continue
		}
		if row.Status == types.ProgressCompleted || row.Priority >= types.PriorityPersonality {
			continue
		}
		if err := s.promote(dbc, row, rank); err != nil {
			s.pickFailed("promote_pick", userID, p.CourseID, err)
		}
	}
	return nil
}

// TopUpIfNeeded fills the unfinished queue back up to RecommendationQueueSize
// with system picks the user has never had.
func (s *recommendationService) TopUpIfNeeded(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}
	unfinished, err := s.progress.ListUnfinished(dbc, userID, types.RecommendationQueueSize)
	if err != nil {
		return fmt.Errorf("list unfinished: %w", err)
	}
	need := types.RecommendationQueueSize - len(unfinished)
	if need <= 0 {
		return nil
	}
	exclude, err := s.progress.ListCourseIDsByUser(dbc, userID)
	if err != nil {
		return fmt.Errorf("list progress courses: %w", err)
	}
	ids, err := s.courses.ListIDsOrdered(dbc, exclude, need)
	if err != nil {
		return fmt.Errorf("%w: list catalog: %v", ErrDependency, err)
	}
	for _, courseID := range ids {
		if _, err := s.createQueued(ctx, userID, courseID, types.SourceSystem, nil); err != nil {
			s.pickFailed("top_up", userID, courseID, err)
		}
	}
	return nil
}

// pickFailed records a single course that could not be queued. The loops
// that call it keep going so one bad course never blocks the rest.
func (s *recommendationService) pickFailed(step string, userID, courseID uuid.UUID, err error) {
	observability.RecordRecommendationStepFailure(step)
	s.log.Error("Recommendation pick failed", "step", step, "user_id", userID, "course_id", courseID, "error", err)
}

// DemoteQueuedPersonalityPicks drops queued personality rows to system
// priority and the unranked sentinel. Source is kept.
func (s *recommendationService) DemoteQueuedPersonalityPicks(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}
	ids, err := s.progress.ListIDsForDemotion(dbc, userID)
	if err != nil {
		return 0, fmt.Errorf("list rows to demote: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.progress.UpdateFieldsByIDs(dbc, ids, map[string]interface{}{
		"priority":         types.PrioritySystem,
		"personality_rank": types.RankUnranked,
	}); err != nil {
		return 0, fmt.Errorf("demote %d rows: %w", len(ids), err)
	}
	return len(ids), nil
}

// PromotePersonalityPicks applies a personality result's picks to the user.
// Completed courses are never re-queued. A pick that fails is logged and
// skipped; only failing to load the picks is an error.
func (s *recommendationService) PromotePersonalityPicks(ctx context.Context, userID, resultID uuid.UUID) (PromoteReport, error) {
	var report PromoteReport
	if userID == uuid.Nil || resultID == uuid.Nil {
		return report, fmt.Errorf("%w: missing user_id or personality_result_id", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}
	picks, err := s.personality.ListPicks(dbc, resultID)
	if err != nil {
		return report, fmt.Errorf("%w: load personality picks: %v", ErrDependency, err)
	}
	report.Picks = len(picks)

	for _, p := range picks {
		rank := p.Rank
		row, err := s.progress.GetByUserAndCourse(dbc, userID, p.CourseID)
		if err != nil {
			report.Failed++
			s.log.Error("Resync pick lookup failed", "user_id", userID, "course_id", p.CourseID, "error", err)
			continue
		}
		if row == nil {
			ok, err := s.createQueued(ctx, userID, p.CourseID, types.SourcePersonality, &rank)
			if err != nil {
				report.Failed++
				s.log.Error("Resync pick create failed", "user_id", userID, "course_id", p.CourseID, "error", err)
				continue
			}
			if ok {
				report.Created++
			}
			continue
		}
		if row.Status == types.ProgressCompleted {
			report.SkippedCompleted++
			continue
		}
		if err := s.promote(dbc, row, rank); err != nil {
			report.Failed++
			s.log.Error("Resync pick promote failed", "user_id", userID, "course_id", p.CourseID, "error", err)
			continue
		}
		report.Promoted++
	}
	return report, nil
}

// ResyncForPersonalityChange runs demote then promote. A failed demotion is
// logged and does not stop the promotion.
func (s *recommendationService) ResyncForPersonalityChange(ctx context.Context, userID, resultID uuid.UUID) error {
	log := s.log.With("user_id", userID, "personality_result_id", resultID)
	log.Info("Personality resync started")

	demoted, err := s.DemoteQueuedPersonalityPicks(ctx, userID)
	if err != nil {
		observability.RecordResyncPhase(ResyncPhaseDemote, "error")
		log.Error("Demote phase failed; continuing", "error", err)
	} else {
		observability.RecordResyncPhase(ResyncPhaseDemote, "ok")
	}

	report, err := s.PromotePersonalityPicks(ctx, userID, resultID)
	if err != nil {
		observability.RecordResyncPhase(ResyncPhasePromote, "error")
		log.Error("Promote phase failed", "error", err)
		return err
	}
	observability.RecordResyncPhase(ResyncPhasePromote, "ok")
	log.Info("Personality resync finished",
		"demoted", demoted,
		"picks", report.Picks,
		"promoted", report.Promoted,
		"created", report.Created,
		"skipped_completed", report.SkippedCompleted,
		"failed", report.Failed,
	)
	return nil
}

// GetRecommendations refreshes the user's queue and returns its first
// RecommendationQueueSize unfinished rows. Refresh failures are logged; the
// listing still returns whatever exists.
func (s *recommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID) (out *Recommendations, err error) {
	ctx, span := tracer.Start(ctx, "RecommendationService.GetRecommendations")
	defer func() { endSpan(span, err) }()

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}

	steps := []struct {
		name string
		fn   func(context.Context, uuid.UUID) error
	}{
		{"seed", s.EnsureSeeded},
		{"add_picks", s.AddPersonalityPicks},
		{"top_up", s.TopUpIfNeeded},
	}
	for _, step := range steps {
		if stepErr := step.fn(ctx, userID); stepErr != nil {
			observability.RecordRecommendationStepFailure(step.name)
			s.log.Warn("Recommendation refresh step failed", "step", step.name, "user_id", userID, "error", stepErr)
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.progress.ListUnfinished(dbc, userID, types.RecommendationQueueSize)
	if err != nil {
		return nil, fmt.Errorf("list unfinished: %w", err)
	}

	out = &Recommendations{Courses: make([]*ProgressView, 0, len(rows))}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.progress.CountCompletedByUser(dbctx.Context{Ctx: gctx}, userID)
		out.CompletedCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.courses.Count(dbctx.Context{Ctx: gctx})
		out.CatalogCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		observability.RecordRecommendationStepFailure("count_completion")
		s.log.Warn("Completion counts unavailable", "user_id", userID, "error", err)
		out.CompletedCount, out.CatalogCount = 0, 0
	} else {
		out.AllCompleted = out.CompletedCount >= out.CatalogCount
	}

	courseIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		courseIDs = append(courseIDs, row.CourseID)
	}
	courses, err := s.courses.GetByIDs(dbc, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	for _, row := range rows {
		course, ok := byID[row.CourseID]
		if !ok {
			s.log.Warn("Skipping progress row for missing course", "user_id", userID, "course_id", row.CourseID, "progress_id", row.ID)
			continue
		}
		out.Courses = append(out.Courses, NewProgressView(row, course))
	}

	span.SetAttributes(
		attribute.Int("recommendation.count", len(out.Courses)),
		attribute.Bool("recommendation.all_completed", out.AllCompleted),
	)
	observability.RecordRecommendations(len(out.Courses))
	return out, nil
}

func (s *recommendationService) picksForUser(dbc dbctx.Context, userID uuid.UUID) ([]types.PersonalityPick, error) {
	profile, err := s.profiles.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load user profile: %v", ErrDependency, err)
	}
	if profile == nil || profile.PersonalityResultID == nil {
		return []types.PersonalityPick{}, nil
	}
	picks, err := s.personality.ListPicks(dbc, *profile.PersonalityResultID)
	if err != nil {
		return nil, fmt.Errorf("%w: load personality picks: %v", ErrDependency, err)
	}
	return picks, nil
}

// createQueued inserts a queued row with totals from the catalog. It reports
// false when the course no longer exists or a row already existed; an
// existing unfinished row is promoted instead when the new row would carry
// personality priority.
func (s *recommendationService) createQueued(ctx context.Context, userID, courseID uuid.UUID, src types.ProgressSource, rank *int) (bool, error) {
	units, err := s.units.UnitIdentifiers(ctx, courseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			s.log.Warn("Skipping pick for missing course", "user_id", userID, "course_id", courseID)
			return false, nil
		}
		return false, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, created, err := s.progress.FindOrCreate(dbc, &types.CourseProgress{
		UserID:          userID,
		CourseID:        courseID,
		Status:          types.ProgressQueued,
		Source:          src,
		Priority:        types.PriorityFor(src),
		PersonalityRank: rank,
		TotalUnits:      len(units),
	})
	if err != nil {
		return false, fmt.Errorf("create progress for course %s: %w", courseID, err)
	}
	if created {
		return true, nil
	}
	if src == types.SourcePersonality && rank != nil &&
		row.Status != types.ProgressCompleted && row.Priority < types.PriorityPersonality {
		if err := s.promote(dbc, row, *rank); err != nil {
			return false, fmt.Errorf("promote course %s: %w", courseID, err)
		}
	}
	return false, nil
}

func (s *recommendationService) promote(dbc dbctx.Context, row *types.CourseProgress, rank int) error {
	if err := s.progress.UpdateFields(dbc, row.ID, map[string]interface{}{
		"source":           types.SourcePersonality,
		"priority":         types.PriorityPersonality,
		"personality_rank": rank,
	}); err != nil {
		return err
	}
	row.Source = types.SourcePersonality
	row.Priority = types.PriorityPersonality
	row.PersonalityRank = &rank
	return nil
}
