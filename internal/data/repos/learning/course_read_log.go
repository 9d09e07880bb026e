package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

type CourseReadLogRepo interface {
	Create(dbc dbctx.Context, row *types.CourseReadLog) error
	CountByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error)
}

type courseReadLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseReadLogRepo(db *gorm.DB, baseLog *logger.Logger) CourseReadLogRepo {
	return &courseReadLogRepo{db: db, log: baseLog.With("repo", "CourseReadLogRepo")}
}

func (r *courseReadLogRepo) Create(dbc dbctx.Context, row *types.CourseReadLog) error {
	if row == nil {
		return nil
	}
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.EventType == "" {
		row.EventType = types.ReadEventPageView
	}
	if row.ServerTS.IsZero() {
		row.ServerTS = now
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *courseReadLogRepo) CountByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.CourseReadLog{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
