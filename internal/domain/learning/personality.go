package learning

import (
	"time"

	"github.com/google/uuid"
)

// PersonalityResult is one outcome of the parenting personality test.
type PersonalityResult struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Title     string    `gorm:"column:title" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PersonalityResult) TableName() string { return "personality_result" }

// PersonalityRecommendation attaches a ranked course to a personality result.
type PersonalityRecommendation struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PersonalityResultID uuid.UUID `gorm:"type:uuid;not null;index:idx_personality_reco,unique,priority:1" json:"personality_result_id"`
	CourseID            uuid.UUID `gorm:"type:uuid;not null;index:idx_personality_reco,unique,priority:2" json:"course_id"`
	Rank                *int      `gorm:"column:rank" json:"rank,omitempty"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}

func (PersonalityRecommendation) TableName() string { return "personality_recommendation" }

// PersonalityPick is a recommendation reduced to what the engine consumes.
type PersonalityPick struct {
	CourseID uuid.UUID
	Rank     int
}
