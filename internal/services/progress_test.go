package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/nurture-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nurture-backend/internal/domain"
)

func TestIngestPageReadCreatesSystemRow(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Sleep", 1, "u1", "u2", "u3", "u4")
	userID := uuid.New()

	view, err := h.progress.IngestPageRead(h.ctx, PageReadInput{UserID: userID, CourseID: course.ID, UnitUUID: "u1"})
	if err != nil {
		t.Fatalf("IngestPageRead: %v", err)
	}
	if view.Source != types.SourceSystem || view.Priority != types.PrioritySystem {
		t.Fatalf("source/priority: got %s/%d", view.Source, view.Priority)
	}
	if view.TotalUnits != 4 || view.CompletedUnits != 1 {
		t.Fatalf("units: got %d/%d", view.CompletedUnits, view.TotalUnits)
	}
	if view.Status != types.ProgressInProgress {
		t.Fatalf("status: want in_progress got %s", view.Status)
	}
	if view.Percent != 0.25 {
		t.Fatalf("percent: want 0.25 got %v", view.Percent)
	}
	if view.Course == nil || view.Course.Title != "Sleep" {
		t.Fatalf("course summary missing: %+v", view.Course)
	}
	n, err := h.readLog.CountByUserAndCourse(h.dbc(), userID, course.ID)
	if err != nil || n != 1 {
		t.Fatalf("read log: n=%d err=%v", n, err)
	}
}

func TestIngestPageReadIdempotentPerUnit(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Feeding", 1, "u1", "u2")
	userID := uuid.New()
	in := PageReadInput{UserID: userID, CourseID: course.ID, UnitUUID: "u1"}

	for i := 0; i < 3; i++ {
		if _, err := h.progress.IngestPageRead(h.ctx, in); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}
	row := h.row(t, userID, course.ID)
	if row.CompletedUnits != 1 {
		t.Fatalf("completed_units: want 1 got %d", row.CompletedUnits)
	}
	n, err := h.ledger.Count(h.dbc(), userID, course.ID)
	if err != nil || n != 1 {
		t.Fatalf("ledger: n=%d err=%v", n, err)
	}
	logs, err := h.readLog.CountByUserAndCourse(h.dbc(), userID, course.ID)
	if err != nil || logs != 3 {
		t.Fatalf("read log entries: want 3 got %d (err=%v)", logs, err)
	}
}

func TestIngestPageReadCompletesOnce(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Play", 1, "u1", "u2")
	userID := uuid.New()

	if _, err := h.progress.IngestPageRead(h.ctx, PageReadInput{UserID: userID, CourseID: course.ID, UnitUUID: "u1"}); err != nil {
		t.Fatalf("u1: %v", err)
	}
	view, err := h.progress.IngestPageRead(h.ctx, PageReadInput{UserID: userID, CourseID: course.ID, UnitUUID: "u2"})
	if err != nil {
		t.Fatalf("u2: %v", err)
	}
	if view.Status != types.ProgressCompleted || view.CompletedAt == nil {
		t.Fatalf("want completed with completed_at, got %s %v", view.Status, view.CompletedAt)
	}
	first := *h.row(t, userID, course.ID).CompletedAt

	again, err := h.progress.IngestPageRead(h.ctx, PageReadInput{UserID: userID, CourseID: course.ID, UnitUUID: "u1"})
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if again.Status != types.ProgressCompleted {
		t.Fatalf("status regressed to %s", again.Status)
	}
	row := h.row(t, userID, course.ID)
	if row.CompletedAt == nil || !row.CompletedAt.Equal(first) {
		t.Fatalf("completed_at moved: first=%v now=%v", first, row.CompletedAt)
	}
	if row.CurrentUnitUUID != "u1" {
		t.Fatalf("current unit: want u1 got %q", row.CurrentUnitUUID)
	}
}

func TestIngestPageReadRefreshesZeroTotal(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Calm", 1, "u1", "u2")
	userID := uuid.New()
	testutil.SeedProgress(t, h.ctx, h.db, &types.CourseProgress{UserID: userID, CourseID: course.ID, Source: types.SourcePersonality, PersonalityRank: testutil.PtrInt(1)})

	view, err := h.progress.IngestPageRead(h.ctx, PageReadInput{UserID: userID, CourseID: course.ID, UnitUUID: "u2"})
	if err != nil {
		t.Fatalf("IngestPageRead: %v", err)
	}
	if view.TotalUnits != 2 {
		t.Fatalf("total_units: want 2 got %d", view.TotalUnits)
	}
	if view.Source != types.SourcePersonality || view.Priority != types.PriorityPersonality {
		t.Fatalf("existing row source changed: %s/%d", view.Source, view.Priority)
	}
}

func TestIngestPageReadUnknownCourse(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()
	courseID := uuid.New()

	_, err := h.progress.IngestPageRead(h.ctx, PageReadInput{UserID: userID, CourseID: courseID, UnitUUID: "u1"})
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("want invalid input wrapping not found, got %v", err)
	}
	row, err := h.progressRp.GetByUserAndCourse(h.dbc(), userID, courseID)
	if err != nil || row != nil {
		t.Fatalf("no row expected, got %+v err=%v", row, err)
	}
}

func TestIngestPageReadValidation(t *testing.T) {
	h := newHarness(t)
	cases := map[string]PageReadInput{
		"no user":   {CourseID: uuid.New(), UnitUUID: "u"},
		"no course": {UserID: uuid.New(), UnitUUID: "u"},
		"no unit":   {UserID: uuid.New(), CourseID: uuid.New(), UnitUUID: "  "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := h.progress.IngestPageRead(h.ctx, in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}
