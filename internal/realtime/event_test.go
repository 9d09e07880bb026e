package realtime

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCatalogEvent(t *testing.T) {
	id := uuid.New()
	raw, err := json.Marshal(CatalogEvent{Type: EventCourseContentChanged, CourseID: id, Origin: "i-1"})
	require.NoError(t, err)

	ev, err := DecodeCatalogEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, id, ev.CourseID)
	assert.Equal(t, "i-1", ev.Origin)
}

func TestDecodeCatalogEventRejects(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":      `not json`,
		"unknown type": `{"type":"course.deleted","course_id":"` + uuid.NewString() + `"}`,
		"no course":    `{"type":"course.content_changed"}`,
	} {
		_, err := DecodeCatalogEvent([]byte(raw))
		assert.True(t, errors.Is(err, ErrInvalidEvent), name)
	}
}
