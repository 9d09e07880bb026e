package learning

import (
	"time"

	"github.com/google/uuid"
)

type ProgressStatus string

const (
	ProgressQueued     ProgressStatus = "queued"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

func (s ProgressStatus) Unfinished() bool {
	return s == ProgressQueued || s == ProgressInProgress
}

// ProgressSource records why a course sits in a user's queue.
type ProgressSource string

const (
	SourcePersonality ProgressSource = "personality"
	SourceDefault     ProgressSource = "default"
	SourceSystem      ProgressSource = "system"
	SourceManual      ProgressSource = "manual"
)

const (
	PriorityPersonality = 100
	PriorityDefault     = 50
	PrioritySystem      = 10

	// RankUnranked sorts after every real personality rank.
	RankUnranked = 999

	// RecommendationQueueSize is how many unfinished courses a user is shown.
	RecommendationQueueSize = 3
)

var sourcePriority = map[ProgressSource]int{
	SourcePersonality: PriorityPersonality,
	SourceDefault:     PriorityDefault,
	SourceSystem:      PrioritySystem,
	SourceManual:      PrioritySystem,
}

// PriorityFor is the ranking weight a source starts with.
func PriorityFor(src ProgressSource) int {
	if p, ok := sourcePriority[src]; ok {
		return p
	}
	return PrioritySystem
}

// CourseProgress is the per-(user, course) progress record.
type CourseProgress struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_course_progress_user_course,unique,priority:1" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_progress_user_course,unique,priority:2;index" json:"course_id"`

	Status          ProgressStatus `gorm:"column:status;type:varchar(16);not null;default:'queued';index" json:"status"`
	Source          ProgressSource `gorm:"column:source;type:varchar(16);not null;default:'system'" json:"source"`
	Priority        int            `gorm:"column:priority;not null;default:10" json:"priority"`
	PersonalityRank *int           `gorm:"column:personality_rank" json:"personality_rank"`

	TotalUnits      int        `gorm:"column:total_units;not null;default:0" json:"total_units"`
	CompletedUnits  int        `gorm:"column:completed_units;not null;default:0" json:"completed_units"`
	CurrentUnitUUID string     `gorm:"column:current_unit_uuid" json:"current_unit_uuid,omitempty"`
	LastActivityAt  *time.Time `gorm:"column:last_activity_at" json:"last_activity_at,omitempty"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (CourseProgress) TableName() string { return "course_progress" }

// Percent is CompletedUnits/TotalUnits, or 0 when the course has no units.
func (p *CourseProgress) Percent() float64 {
	if p == nil || p.TotalUnits <= 0 {
		return 0
	}
	return float64(p.CompletedUnits) / float64(p.TotalUnits)
}

// EffectiveRank substitutes RankUnranked for a missing rank.
func (p *CourseProgress) EffectiveRank() int {
	if p == nil || p.PersonalityRank == nil {
		return RankUnranked
	}
	return *p.PersonalityRank
}

// StatusFor derives the status implied by the unit counters. Completion needs
// a positive total, so a course whose units were never counted stays open.
func StatusFor(completed, total int, current ProgressStatus) ProgressStatus {
	switch {
	case total > 0 && completed >= total:
		return ProgressCompleted
	case current == ProgressCompleted:
		return ProgressCompleted
	case completed > 0:
		return ProgressInProgress
	case current == "":
		return ProgressQueued
	default:
		return current
	}
}

// LessUnfinished orders unfinished progress rows for display: in-progress
// first, then priority descending, personality rank ascending, and most
// recently updated first.
func LessUnfinished(a, b *CourseProgress) bool {
	aIn, bIn := a.Status == ProgressInProgress, b.Status == ProgressInProgress
	if aIn != bIn {
		return aIn
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if ar, br := a.EffectiveRank(), b.EffectiveRank(); ar != br {
		return ar < br
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID.String() < b.ID.String()
}
