package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/nurture-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
)

func TestCourseReadLogRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCourseReadLogRepo(db, testutil.Logger(t))

	userID, courseID := uuid.New(), uuid.New()
	for i := 0; i < 2; i++ {
		row := &types.CourseReadLog{UserID: userID, CourseID: courseID, UnitUUID: "u-1"}
		if err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		if row.EventType != types.ReadEventPageView || row.ServerTS.IsZero() {
			t.Fatalf("Create defaults: %+v", row)
		}
	}
	if n, err := repo.CountByUserAndCourse(dbc, userID, courseID); err != nil || n != 2 {
		t.Fatalf("CountByUserAndCourse: n=%d err=%v", n, err)
	}
}
