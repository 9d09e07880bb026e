package learning

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

type PersonalityRepo interface {
	GetResultByID(dbc dbctx.Context, id uuid.UUID) (*types.PersonalityResult, error)
	GetResultByCode(dbc dbctx.Context, code string) (*types.PersonalityResult, error)
	CreateResult(dbc dbctx.Context, row *types.PersonalityResult) error
	ListPicks(dbc dbctx.Context, resultID uuid.UUID) ([]types.PersonalityPick, error)
	ReplacePicks(dbc dbctx.Context, resultID uuid.UUID, picks []types.PersonalityPick) error
}

type personalityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonalityRepo(db *gorm.DB, baseLog *logger.Logger) PersonalityRepo {
	return &personalityRepo{db: db, log: baseLog.With("repo", "PersonalityRepo")}
}

func (r *personalityRepo) GetResultByID(dbc dbctx.Context, id uuid.UUID) (*types.PersonalityResult, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.PersonalityResult
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *personalityRepo) GetResultByCode(dbc dbctx.Context, code string) (*types.PersonalityResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var out types.PersonalityResult
	if err := dbc.DB(r.db).Where("code = ?", code).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *personalityRepo) CreateResult(dbc dbctx.Context, row *types.PersonalityResult) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(row).Error
}

// ListPicks returns the result's courses by rank ascending; unranked
// recommendations take RankUnranked and sort last.
func (r *personalityRepo) ListPicks(dbc dbctx.Context, resultID uuid.UUID) ([]types.PersonalityPick, error) {
	out := []types.PersonalityPick{}
	if resultID == uuid.Nil {
		return out, nil
	}
	var rows []*types.PersonalityRecommendation
	if err := dbc.DB(r.db).
		Where("personality_result_id = ?", resultID).
		Order("COALESCE(rank, 999) ASC, created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		rank := types.RankUnranked
		if row.Rank != nil {
			rank = *row.Rank
		}
		out = append(out, types.PersonalityPick{CourseID: row.CourseID, Rank: rank})
	}
	return out, nil
}

// ReplacePicks swaps the result's recommendation list. Callers should pass a
// transaction.
func (r *personalityRepo) ReplacePicks(dbc dbctx.Context, resultID uuid.UUID, picks []types.PersonalityPick) error {
	if resultID == uuid.Nil {
		return nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("personality_result_id = ?", resultID).
		Delete(&types.PersonalityRecommendation{}).Error; err != nil {
		return err
	}
	if len(picks) == 0 {
		return nil
	}
	rows := make([]*types.PersonalityRecommendation, 0, len(picks))
	for _, p := range picks {
		rank := p.Rank
		rows = append(rows, &types.PersonalityRecommendation{
			ID:                  uuid.New(),
			PersonalityResultID: resultID,
			CourseID:            p.CourseID,
			Rank:                &rank,
		})
	}
	return t.Create(&rows).Error
}
