package learning

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

// unfinishedCandidateCap bounds how many unfinished rows are loaded before the
// in-memory sort.
const unfinishedCandidateCap = 100

const unfinishedOrder = "CASE WHEN status = 'in_progress' THEN 0 ELSE 1 END ASC, " +
	"priority DESC, COALESCE(personality_rank, 999) ASC, updated_at DESC, id ASC"

type CourseProgressRepo interface {
	FindOrCreate(dbc dbctx.Context, row *types.CourseProgress) (*types.CourseProgress, bool, error)
	GetByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.CourseProgress, error)
	GetByUserAndCourses(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]*types.CourseProgress, error)
	ListUnfinished(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CourseProgress, error)
	ListCourseIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListIDsForDemotion(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateFieldsByIDs(dbc dbctx.Context, ids []uuid.UUID, updates map[string]interface{}) error
}

type courseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	return &courseProgressRepo{db: db, log: baseLog.With("repo", "CourseProgressRepo")}
}

// FindOrCreate returns the (user, course) row, inserting row when none exists.
// A concurrent insert of the same pair is resolved by re-reading the winner.
// The bool reports whether this call created the row.
func (r *courseProgressRepo) FindOrCreate(dbc dbctx.Context, row *types.CourseProgress) (*types.CourseProgress, bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.CourseID == uuid.Nil {
		return nil, false, fmt.Errorf("course progress: user_id and course_id are required")
	}
	existing, err := r.GetByUserAndCourse(dbc, row.UserID, row.CourseID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.ProgressQueued
	}
	if row.Source == "" {
		row.Source = types.SourceSystem
	}
	if row.Priority == 0 {
		row.Priority = types.PriorityFor(row.Source)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}

	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil && !IsUniqueViolation(res.Error) {
		return nil, false, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return row, true, nil
	}

	r.log.Debug("Course progress insert lost race; re-reading", "user_id", row.UserID, "course_id", row.CourseID)
	existing, err = r.GetByUserAndCourse(dbc, row.UserID, row.CourseID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("course progress for course %s vanished after conflict", row.CourseID)
	}
	return existing, false, nil
}

func (r *courseProgressRepo) GetByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.CourseProgress, error) {
	if userID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var out types.CourseProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *courseProgressRepo) GetByUserAndCourses(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]*types.CourseProgress, error) {
	var results []*types.CourseProgress
	if userID == uuid.Nil || len(courseIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListUnfinished returns queued and in-progress rows in display order:
// in-progress first, priority descending, personality rank ascending (unranked
// last), then most recently updated.
func (r *courseProgressRepo) ListUnfinished(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CourseProgress, error) {
	var results []*types.CourseProgress
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND status IN ?", userID, []types.ProgressStatus{types.ProgressQueued, types.ProgressInProgress}).
		Order(unfinishedOrder).
		Limit(unfinishedCandidateCap).
		Find(&results).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return types.LessUnfinished(results[i], results[j])
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *courseProgressRepo) ListCourseIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.CourseProgress{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListIDsForDemotion returns queued personality-sourced rows.
func (r *courseProgressRepo) ListIDsForDemotion(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.CourseProgress{}).
		Where("user_id = ? AND source = ? AND status = ?", userID, types.SourcePersonality, types.ProgressQueued).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *courseProgressRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.CourseProgress{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *courseProgressRepo) CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.CourseProgress{}).
		Where("user_id = ? AND status = ?", userID, types.ProgressCompleted).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *courseProgressRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return nil
	}
	return r.UpdateFieldsByIDs(dbc, []uuid.UUID{id}, updates)
}

func (r *courseProgressRepo) UpdateFieldsByIDs(dbc dbctx.Context, ids []uuid.UUID, updates map[string]interface{}) error {
	if len(ids) == 0 || len(updates) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		fields[k] = v
	}
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).
		Model(&types.CourseProgress{}).
		Where("id IN ?", ids).
		Updates(fields).Error
}
