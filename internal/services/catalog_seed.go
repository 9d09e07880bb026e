package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/data/repos"
	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

var catalogValidate = validator.New()

// CatalogFile is the YAML document loaded by the seed-catalog command.
//
//	courses:
//	  - title: Sleep basics
//	    order: 1
//	    content:
//	      - __component: coursecontent.text
//	        data: "..."
//	      - __component: coursecontent.pagebreaker
//	personality_results:
//	  - code: nurturer
//	    picks:
//	      - course: Sleep basics
//	        rank: 1
type CatalogFile struct {
	Courses            []CatalogCourse      `yaml:"courses" validate:"dive"`
	PersonalityResults []CatalogPersonality `yaml:"personality_results" validate:"dive"`
}

type CatalogCourse struct {
	Title   string                   `yaml:"title" validate:"required"`
	Locale  string                   `yaml:"locale" validate:"omitempty,min=2,max=16"`
	Order   int                      `yaml:"order" validate:"gte=0"`
	IconURL string                   `yaml:"icon_url" validate:"omitempty,url"`
	Content []map[string]interface{} `yaml:"content" validate:"dive,required"`
}

type CatalogPersonality struct {
	Code  string        `yaml:"code" validate:"required"`
	Title string        `yaml:"title"`
	Picks []CatalogPick `yaml:"picks" validate:"dive"`
}

type CatalogPick struct {
	Course string `yaml:"course" validate:"required"`
	Locale string `yaml:"locale"`
	Rank   int    `yaml:"rank" validate:"gte=1"`
}

type SeedReport struct {
	CoursesCreated     int `json:"courses_created"`
	CoursesUpdated     int `json:"courses_updated"`
	UnitsAssigned      int `json:"units_assigned"`
	PersonalityResults int `json:"personality_results"`
	Picks              int `json:"picks"`
}

func LoadCatalogFile(path string) (*CatalogFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*CatalogFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var file CatalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: parse catalog: %v", ErrInvalidInput, err)
	}
	if err := catalogValidate.Struct(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &file, nil
}

func (c CatalogCourse) blocks() (types.ContentBlocks, error) {
	blocks := types.ContentBlocks{}
	if len(c.Content) == 0 {
		return blocks, nil
	}
	raw, err := json.Marshal(c.Content)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// CatalogSeedService loads courses and personality picks from a CatalogFile.
// Courses are matched by (title, locale) so reseeding updates in place.
type CatalogSeedService interface {
	Seed(ctx context.Context, file *CatalogFile) (SeedReport, error)
}

type catalogSeedService struct {
	db          *gorm.DB
	log         *logger.Logger
	courses     repos.CourseRepo
	personality repos.PersonalityRepo
	units       CourseUnitService
}

func NewCatalogSeedService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courses repos.CourseRepo,
	personality repos.PersonalityRepo,
	units CourseUnitService,
) CatalogSeedService {
	return &catalogSeedService{
		db:          db,
		log:         baseLog.With("service", "CatalogSeedService"),
		courses:     courses,
		personality: personality,
		units:       units,
	}
}

func (s *catalogSeedService) Seed(ctx context.Context, file *CatalogFile) (SeedReport, error) {
	var report SeedReport
	if file == nil {
		return report, fmt.Errorf("%w: missing catalog", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}

	for _, c := range file.Courses {
		blocks, err := c.blocks()
		if err != nil {
			return report, fmt.Errorf("%w: course %q content: %v", ErrInvalidInput, c.Title, err)
		}
		locale := normalizeLocale(c.Locale)
		existing, err := s.courses.GetByTitle(dbc, c.Title, locale)
		if err != nil {
			return report, fmt.Errorf("lookup course %q: %w", c.Title, err)
		}
		if existing == nil {
			_, stats, err := s.units.CreateCourse(ctx, &types.Course{
				Title:     strings.TrimSpace(c.Title),
				Locale:    locale,
				SortOrder: c.Order,
				IconURL:   c.IconURL,
			}, blocks)
			if err != nil {
				return report, fmt.Errorf("create course %q: %w", c.Title, err)
			}
			report.CoursesCreated++
			report.UnitsAssigned += stats.Assigned
			continue
		}
		inheritUnitUUIDs(existing, blocks)
		if err := s.courses.UpdateFields(dbc, existing.ID, map[string]interface{}{
			"sort_order": c.Order,
			"icon_url":   c.IconURL,
		}); err != nil {
			return report, fmt.Errorf("update course %q: %w", c.Title, err)
		}
		_, stats, err := s.units.SaveCourseContent(ctx, existing.ID, blocks)
		if err != nil {
			return report, fmt.Errorf("save course %q content: %w", c.Title, err)
		}
		report.CoursesUpdated++
		report.UnitsAssigned += stats.Assigned
	}

	for _, pr := range file.PersonalityResults {
		n, err := s.seedPersonality(ctx, pr)
		if err != nil {
			return report, err
		}
		report.PersonalityResults++
		report.Picks += n
	}

	s.log.Info("Catalog seeded",
		"courses_created", report.CoursesCreated,
		"courses_updated", report.CoursesUpdated,
		"units_assigned", report.UnitsAssigned,
		"personality_results", report.PersonalityResults,
		"picks", report.Picks,
	)
	return report, nil
}

func (s *catalogSeedService) seedPersonality(ctx context.Context, pr CatalogPersonality) (int, error) {
	picks := make([]types.PersonalityPick, 0, len(pr.Picks))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		result, err := s.personality.GetResultByCode(dbc, pr.Code)
		if err != nil {
			return err
		}
		if result == nil {
			result = &types.PersonalityResult{Code: strings.TrimSpace(pr.Code), Title: pr.Title}
			if err := s.personality.CreateResult(dbc, result); err != nil {
				return err
			}
		}
		for _, p := range pr.Picks {
			course, err := s.courses.GetByTitle(dbc, p.Course, normalizeLocale(p.Locale))
			if err != nil {
				return err
			}
			if course == nil {
				return fmt.Errorf("%w: personality %q picks unknown course %q", ErrInvalidInput, pr.Code, p.Course)
			}
			picks = append(picks, types.PersonalityPick{CourseID: course.ID, Rank: p.Rank})
		}
		return s.personality.ReplacePicks(dbc, result.ID, picks)
	})
	if err != nil {
		return 0, fmt.Errorf("seed personality %q: %w", pr.Code, err)
	}
	return len(picks), nil
}

// inheritUnitUUIDs copies the stored course's unit ids onto page breaks in
// the same position that carry none, so reseeding unchanged content keeps
// every learner's ledger valid.
func inheritUnitUUIDs(existing *types.Course, blocks types.ContentBlocks) {
	current, err := existing.Blocks()
	if err != nil {
		return
	}
	prev := current.PageBreaks()
	for i, pb := range blocks.PageBreaks() {
		if i >= len(prev) {
			return
		}
		if pb.UnitUUID == "" {
			pb.UnitUUID = prev[i].UnitUUID
		}
	}
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "en"
	}
	return locale
}
