package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const ReadEventPageView = "page_view"

// CourseReadLog is a raw page-view event. Append-only; nothing in the
// progress path reads it back.
type CourseReadLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	UnitUUID  string         `gorm:"column:unit_uuid;not null" json:"unit_uuid"`
	EventType string         `gorm:"column:event_type;not null;default:'page_view'" json:"event_type"`
	DwellMS   *int           `gorm:"column:dwell_ms" json:"dwell_ms,omitempty"`
	SessionID string         `gorm:"column:session_id;index" json:"session_id,omitempty"`
	EventID   string         `gorm:"column:event_id" json:"event_id,omitempty"`
	ClientTS  *time.Time     `gorm:"column:client_ts" json:"client_ts,omitempty"`
	ServerTS  time.Time      `gorm:"column:server_ts;not null;index" json:"server_ts"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (CourseReadLog) TableName() string { return "course_read_log" }
