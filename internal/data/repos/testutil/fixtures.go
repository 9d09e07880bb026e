package testutil

import (
	"context"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/nurture-backend/internal/domain"
)

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func PtrInt(v int) *int { return &v }

// SeedCourse inserts a course whose content holds one page break per unit id.
// An empty unit id leaves the page break unassigned.
func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, order int, unitIDs ...string) *types.Course {
	tb.Helper()
	blocks := types.ContentBlocks{}
	for i, unit := range unitIDs {
		blocks = append(blocks, learningText(i))
		blocks = append(blocks, types.NewPageBreak(unit))
	}
	c := &types.Course{
		ID:        uuid.New(),
		Title:     title,
		Locale:    "en",
		SortOrder: order,
	}
	if err := c.SetBlocks(blocks); err != nil {
		tb.Fatalf("encode course content: %v", err)
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedCatalog inserts n courses ordered 1..n.
func SeedCatalog(tb testing.TB, ctx context.Context, tx *gorm.DB, n int, unitsPerCourse int) []*types.Course {
	tb.Helper()
	out := make([]*types.Course, 0, n)
	for i := 1; i <= n; i++ {
		units := make([]string, 0, unitsPerCourse)
		for u := 1; u <= unitsPerCourse; u++ {
			units = append(units, uuid.NewString())
		}
		out = append(out, SeedCourse(tb, ctx, tx, "course-"+strconv.Itoa(i), i, units...))
	}
	return out
}

func SeedPersonalityResult(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.PersonalityResult {
	tb.Helper()
	pr := &types.PersonalityResult{ID: uuid.New(), Code: code, Title: code}
	if err := tx.WithContext(ctx).Create(pr).Error; err != nil {
		tb.Fatalf("seed personality result: %v", err)
	}
	return pr
}

func SeedPersonalityRecommendation(tb testing.TB, ctx context.Context, tx *gorm.DB, resultID, courseID uuid.UUID, rank *int) *types.PersonalityRecommendation {
	tb.Helper()
	row := &types.PersonalityRecommendation{ID: uuid.New(), PersonalityResultID: resultID, CourseID: courseID, Rank: rank}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed personality recommendation: %v", err)
	}
	return row
}

func SeedUserProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, resultID *uuid.UUID) *types.UserProfile {
	tb.Helper()
	p := &types.UserProfile{ID: uuid.New(), UserID: userID, PersonalityResultID: resultID}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed user profile: %v", err)
	}
	return p
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, row *types.CourseProgress) *types.CourseProgress {
	tb.Helper()
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
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return row
}

func learningText(i int) types.ContentBlock {
	return types.TextBlock{Data: "page " + strconv.Itoa(i+1)}
}
