package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

type UserProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error)
	SetPersonalityResult(dbc dbctx.Context, userID uuid.UUID, resultID *uuid.UUID) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var out types.UserProfile
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

// SetPersonalityResult upserts the profile row keyed by user. A nil resultID
// clears the relation.
func (r *userProfileRepo) SetPersonalityResult(dbc dbctx.Context, userID uuid.UUID, resultID *uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row := &types.UserProfile{
		ID:                  uuid.New(),
		UserID:              userID,
		PersonalityResultID: resultID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"personality_result_id", "updated_at"}),
		}).
		Create(row).Error
}
