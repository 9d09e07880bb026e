package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventCourseContentChanged = "course.content_changed"
)

var ErrInvalidEvent = errors.New("invalid catalog event")

// CatalogEvent tells every instance that cached data derived from a course is
// stale. Origin identifies the publishing instance.
type CatalogEvent struct {
	Type     string    `json:"type"`
	CourseID uuid.UUID `json:"course_id"`
	Origin   string    `json:"origin,omitempty"`
	At       time.Time `json:"at"`
}

func (e CatalogEvent) Validate() error {
	switch {
	case e.Type != EventCourseContentChanged:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	case e.CourseID == uuid.Nil:
		return fmt.Errorf("%w: missing course_id", ErrInvalidEvent)
	}
	return nil
}

// DecodeCatalogEvent parses and validates a wire payload.
func DecodeCatalogEvent(raw []byte) (CatalogEvent, error) {
	var ev CatalogEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return CatalogEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := ev.Validate(); err != nil {
		return CatalogEvent{}, err
	}
	return ev, nil
}
