package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

// catalogOrder is the natural catalog order used for seeding and top-up.
const catalogOrder = "sort_order ASC, created_at ASC, id ASC"

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error)
	GetByTitle(dbc dbctx.Context, title, locale string) (*types.Course, error)
	ListIDsOrdered(dbc dbctx.Context, excludeIDs []uuid.UUID, limit int) ([]uuid.UUID, error)
	ListPage(dbc dbctx.Context, offset, limit int) ([]*types.Course, error)
	Count(dbc dbctx.Context) (int64, error)
	UpdateContent(dbc dbctx.Context, id uuid.UUID, content datatypes.JSON) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	now := time.Now().UTC()
	for _, c := range courses {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		if c.Locale == "" {
			c.Locale = "en"
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if len(c.Content) == 0 {
			c.Content = datatypes.JSON([]byte("[]"))
		}
	}
	if err := dbc.DB(r.db).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	var results []*types.Course
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) GetByTitle(dbc dbctx.Context, title, locale string) (*types.Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	if locale == "" {
		locale = "en"
	}
	var out types.Course
	if err := dbc.DB(r.db).
		Where("title = ? AND locale = ?", title, locale).
		Order("created_at ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

// ListIDsOrdered returns course ids in catalog order, skipping excludeIDs.
// A non-positive limit returns every remaining course.
func (r *courseRepo) ListIDsOrdered(dbc dbctx.Context, excludeIDs []uuid.UUID, limit int) ([]uuid.UUID, error) {
	q := dbc.DB(r.db).Model(&types.Course{})
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ids []uuid.UUID
	if err := q.Order(catalogOrder).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListPage walks the catalog by id for batch jobs.
func (r *courseRepo) ListPage(dbc dbctx.Context, offset, limit int) ([]*types.Course, error) {
	var results []*types.Course
	if limit <= 0 {
		return results, nil
	}
	if offset < 0 {
		offset = 0
	}
	if err := dbc.DB(r.db).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Course{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *courseRepo) UpdateContent(dbc dbctx.Context, id uuid.UUID, content datatypes.JSON) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{"content": content})
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).
		Model(&types.Course{}).
		Where("id = ?", id).
		Updates(updates).Error
}
