package learning

import (
	"time"

	"github.com/google/uuid"
)

// CourseUnitState marks one finished page (unit) of a course for a user. Rows
// are only ever inserted.
type CourseUnitState struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_course_unit_state_key,unique,priority:1" json:"user_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index:idx_course_unit_state_key,unique,priority:2" json:"course_id"`
	UnitUUID    string    `gorm:"column:unit_uuid;not null;index:idx_course_unit_state_key,unique,priority:3" json:"unit_uuid"`
	CompletedAt time.Time `gorm:"column:completed_at;not null" json:"completed_at"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (CourseUnitState) TableName() string { return "course_unit_state" }
