package learning

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

// CourseUnitStateRepo is the append-only ledger of finished pages. Its count
// is the only input to a progress row's completed_units.
type CourseUnitStateRepo interface {
	MarkComplete(dbc dbctx.Context, userID, courseID uuid.UUID, unitUUID string) (bool, error)
	Count(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error)
}

type courseUnitStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseUnitStateRepo(db *gorm.DB, baseLog *logger.Logger) CourseUnitStateRepo {
	return &courseUnitStateRepo{db: db, log: baseLog.With("repo", "CourseUnitStateRepo")}
}

// MarkComplete records the unit once. It reports whether this call inserted
// the row; repeated or concurrent calls for the same triple are no-ops.
func (r *courseUnitStateRepo) MarkComplete(dbc dbctx.Context, userID, courseID uuid.UUID, unitUUID string) (bool, error) {
	unitUUID = strings.TrimSpace(unitUUID)
	if userID == uuid.Nil || courseID == uuid.Nil || unitUUID == "" {
		return false, fmt.Errorf("course unit state: user_id, course_id and unit_uuid are required")
	}

	var existing int64
	if err := dbc.DB(r.db).
		Model(&types.CourseUnitState{}).
		Where("user_id = ? AND course_id = ? AND unit_uuid = ?", userID, courseID, unitUUID).
		Count(&existing).Error; err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	row := &types.CourseUnitState{
		ID:          uuid.New(),
		UserID:      userID,
		CourseID:    courseID,
		UnitUUID:    unitUUID,
		CompletedAt: now,
		CreatedAt:   now,
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "unit_uuid"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *courseUnitStateRepo) Count(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error) {
	var n int64
	if userID == uuid.Nil || courseID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.CourseUnitState{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
