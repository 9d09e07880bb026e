package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/nurture-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nurture-backend/internal/domain"
)

func TestAssignUnitUUIDs(t *testing.T) {
	blocks := types.ContentBlocks{
		types.TextBlock{Data: "intro"},
		types.NewPageBreak("keep"),
		types.NewPageBreak(""),
		types.NewPageBreak("keep"),
		types.NewPageBreak("other"),
	}
	stats := AssignUnitUUIDs(blocks)
	assert.Equal(t, UnitAssignment{Total: 4, Assigned: 2, Kept: 2, DuplicatesFixed: 1}, stats)
	assert.True(t, stats.Changed())

	ids := blocks.UnitUUIDs()
	require.Len(t, ids, 4)
	assert.Equal(t, "keep", ids[0])
	assert.Equal(t, "other", ids[3])
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	again := AssignUnitUUIDs(blocks)
	assert.False(t, again.Changed())
	assert.Equal(t, ids, blocks.UnitUUIDs())
}

func TestUnitIdentifiersNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.units.UnitIdentifiers(h.ctx, uuid.New())
	assert.True(t, errors.Is(err, ErrCourseNotFound), "got %v", err)
}

func TestUnitIdentifiersReturnsCopy(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Copy", 1, "a", "b")

	ids, err := h.units.UnitIdentifiers(h.ctx, course.ID)
	require.NoError(t, err)
	ids[0] = "mutated"

	again, err := h.units.UnitIdentifiers(h.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestUnitIdentifiersIgnoresCallerCancellation(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Shared", 1, "a", "b")

	ctx, cancel := context.WithCancel(h.ctx)
	cancel()
	ids, err := h.units.UnitIdentifiers(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	// the result is cached for live callers too
	again, err := h.units.UnitIdentifiers(h.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestSaveCourseContentInvalidatesLocalCache(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Edit", 1, "a")

	ids, err := h.units.UnitIdentifiers(h.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	_, stats, err := h.units.SaveCourseContent(h.ctx, course.ID, types.ContentBlocks{
		types.NewPageBreak("a"),
		types.NewPageBreak(""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Assigned)

	ids, err = h.units.UnitIdentifiers(h.ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "a", ids[0])
	assert.NotEmpty(t, ids[1])
}

func TestInvalidationReachesOtherInstances(t *testing.T) {
	h := newHarness(t)
	course := testutil.SeedCourse(t, h.ctx, h.db, "Shared", 1, "a")
	other := NewCourseUnitService(h.db, testutil.Logger(t), h.courses, h.bus, UnitCacheConfig{Size: 8})

	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()
	require.NoError(t, other.StartInvalidationListener(ctx))

	ids, err := other.UnitIdentifiers(h.ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	_, _, err = h.units.SaveCourseContent(h.ctx, course.ID, types.ContentBlocks{types.NewPageBreak("z")})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		ids, err := other.UnitIdentifiers(h.ctx, course.ID)
		return err == nil && len(ids) == 1 && ids[0] == "z"
	}, timeout, tick)
}

func TestCreateCourseAssignsUnits(t *testing.T) {
	h := newHarness(t)
	course, stats, err := h.units.CreateCourse(h.ctx, &types.Course{Title: "New", SortOrder: 3}, types.ContentBlocks{
		types.TextBlock{Data: "p1"},
		types.NewPageBreak(""),
		types.NewPageBreak(""),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Assigned)

	ids, err := h.units.UnitIdentifiers(h.ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestBackfillUnitUUIDs(t *testing.T) {
	h := newHarness(t)
	clean := testutil.SeedCourse(t, h.ctx, h.db, "Clean", 1, "x", "y")
	missing := testutil.SeedCourse(t, h.ctx, h.db, "Missing", 2, "", "")
	dup := testutil.SeedCourse(t, h.ctx, h.db, "Dup", 3, "d", "d")

	report, err := h.units.BackfillUnitUUIDs(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, BackfillReport{Scanned: 3, Updated: 2, Assigned: 3, DuplicatesFixed: 1}, report)

	ids, err := h.units.UnitIdentifiers(h.ctx, clean.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)

	ids, err = h.units.UnitIdentifiers(h.ctx, missing.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ids, err = h.units.UnitIdentifiers(h.ctx, dup.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "d", ids[0])
	assert.NotEqual(t, "d", ids[1])

	again, err := h.units.BackfillUnitUUIDs(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Updated)
}
