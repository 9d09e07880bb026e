package learning

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/nurture-backend/internal/data/repos/testutil"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
)

func TestCourseUnitStateRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCourseUnitStateRepo(db, testutil.Logger(t))

	userID, courseID := uuid.New(), uuid.New()

	created, err := repo.MarkComplete(dbc, userID, courseID, "u-1")
	if err != nil || !created {
		t.Fatalf("MarkComplete first: created=%v err=%v", created, err)
	}
	created, err = repo.MarkComplete(dbc, userID, courseID, "u-1")
	if err != nil || created {
		t.Fatalf("MarkComplete repeat: created=%v err=%v", created, err)
	}
	if _, err := repo.MarkComplete(dbc, userID, courseID, "u-2"); err != nil {
		t.Fatalf("MarkComplete u-2: %v", err)
	}
	if _, err := repo.MarkComplete(dbc, userID, courseID, "  "); err == nil {
		t.Fatalf("MarkComplete blank unit should fail")
	}

	if n, err := repo.Count(dbc, userID, courseID); err != nil || n != 2 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
	if n, err := repo.Count(dbc, uuid.New(), courseID); err != nil || n != 0 {
		t.Fatalf("Count other user: n=%d err=%v", n, err)
	}
}

func TestCourseUnitStateRepoConcurrentMarkComplete(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewCourseUnitStateRepo(db, testutil.Logger(t))

	userID, courseID := uuid.New(), uuid.New()

	const workers = 10
	var (
		wg       sync.WaitGroup
		inserted int32
		failures int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := repo.MarkComplete(dbc, userID, courseID, "u-1")
			if err != nil {
				atomic.AddInt32(&failures, 1)
				return
			}
			if created {
				atomic.AddInt32(&inserted, 1)
			}
		}()
	}
	wg.Wait()

	if failures != 0 {
		t.Fatalf("MarkComplete failures: %d", failures)
	}
	if inserted != 1 {
		t.Fatalf("expected exactly one insert, got %d", inserted)
	}
	if n, err := repo.Count(dbc, userID, courseID); err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
}
