package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/nurture-backend/internal/data/repos/testutil"
)

const sampleCatalog = `
courses:
  - title: Sleep basics
    order: 1
    content:
      - __component: coursecontent.text
        data: "Bedtime routines"
      - __component: coursecontent.pagebreaker
      - __component: coursecontent.text
        data: "Night waking"
      - __component: coursecontent.pagebreaker
  - title: Feeding
    order: 2
    icon_url: https://cdn.example.com/feeding.png
    content:
      - __component: coursecontent.pagebreaker
personality_results:
  - code: nurturer
    title: The Nurturer
    picks:
      - course: Feeding
        rank: 1
      - course: Sleep basics
        rank: 2
`

func newCatalogSeed(t *testing.T, h *harness) CatalogSeedService {
	t.Helper()
	return NewCatalogSeedService(h.db, testutil.Logger(t), h.courses, h.personality, h.units)
}

func TestParseCatalogValidates(t *testing.T) {
	_, err := ParseCatalog([]byte("courses:\n  - order: 1\n"))
	assert.True(t, errors.Is(err, ErrInvalidInput), "missing title: %v", err)

	_, err = ParseCatalog([]byte("courses:\n  - title: x\n    colour: red\n"))
	assert.True(t, errors.Is(err, ErrInvalidInput), "unknown field: %v", err)

	_, err = ParseCatalog([]byte("personality_results:\n  - code: a\n    picks:\n      - course: x\n        rank: 0\n"))
	assert.True(t, errors.Is(err, ErrInvalidInput), "rank 0: %v", err)
}

func TestCatalogSeedIsRepeatable(t *testing.T) {
	h := newHarness(t)
	file, err := ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)
	svc := newCatalogSeed(t, h)

	report, err := svc.Seed(h.ctx, file)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{CoursesCreated: 2, UnitsAssigned: 3, PersonalityResults: 1, Picks: 2}, report)

	sleep, err := h.courses.GetByTitle(h.dbc(), "Sleep basics", "")
	require.NoError(t, err)
	require.NotNil(t, sleep)
	units, err := h.units.UnitIdentifiers(h.ctx, sleep.ID)
	require.NoError(t, err)
	require.Len(t, units, 2)

	pr, err := h.personality.GetResultByCode(h.dbc(), "nurturer")
	require.NoError(t, err)
	require.NotNil(t, pr)
	picks, err := h.personality.ListPicks(h.dbc(), pr.ID)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, sleep.ID, picks[1].CourseID)

	again, err := svc.Seed(h.ctx, file)
	require.NoError(t, err)
	assert.Equal(t, 2, again.CoursesUpdated)
	assert.Equal(t, 0, again.CoursesCreated)
	assert.Equal(t, 0, again.UnitsAssigned)
	kept, err := h.units.UnitIdentifiers(h.ctx, sleep.ID)
	require.NoError(t, err)
	assert.Equal(t, units, kept)
	n, err := h.courses.Count(h.dbc())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCatalogSeedUnknownPickCourse(t *testing.T) {
	h := newHarness(t)
	file, err := ParseCatalog([]byte("personality_results:\n  - code: lost\n    picks:\n      - course: Nowhere\n        rank: 1\n"))
	require.NoError(t, err)

	_, err = newCatalogSeed(t, h).Seed(h.ctx, file)
	assert.ErrorIs(t, err, ErrInvalidInput)
	pr, err := h.personality.GetResultByCode(h.dbc(), "lost")
	require.NoError(t, err)
	assert.Nil(t, pr, "failed seed should roll back the personality result")
}
