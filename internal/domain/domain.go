package domain

import (
	"github.com/yungbote/nurture-backend/internal/domain/learning"
)

const (
	ProgressQueued     = learning.ProgressQueued
	ProgressInProgress = learning.ProgressInProgress
	ProgressCompleted  = learning.ProgressCompleted

	SourcePersonality = learning.SourcePersonality
	SourceDefault     = learning.SourceDefault
	SourceSystem      = learning.SourceSystem
	SourceManual      = learning.SourceManual

	PriorityPersonality     = learning.PriorityPersonality
	PriorityDefault         = learning.PriorityDefault
	PrioritySystem          = learning.PrioritySystem
	RankUnranked            = learning.RankUnranked
	RecommendationQueueSize = learning.RecommendationQueueSize

	ReadEventPageView = learning.ReadEventPageView
)

type Course = learning.Course
type CourseSummary = learning.CourseSummary
type ContentBlock = learning.ContentBlock
type ContentBlocks = learning.ContentBlocks
type PageBreak = learning.PageBreak
type TextBlock = learning.TextBlock
type RawBlock = learning.RawBlock

type CourseProgress = learning.CourseProgress
type ProgressStatus = learning.ProgressStatus
type ProgressSource = learning.ProgressSource
type CourseUnitState = learning.CourseUnitState
type CourseReadLog = learning.CourseReadLog

type PersonalityResult = learning.PersonalityResult
type PersonalityRecommendation = learning.PersonalityRecommendation
type PersonalityPick = learning.PersonalityPick
type UserProfile = learning.UserProfile
type RelationRef = learning.RelationRef

var (
	PriorityFor    = learning.PriorityFor
	StatusFor      = learning.StatusFor
	LessUnfinished = learning.LessUnfinished
	NewPageBreak   = learning.NewPageBreak
)

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Course{},
		&PersonalityResult{},
		&PersonalityRecommendation{},
		&UserProfile{},
		&CourseProgress{},
		&CourseUnitState{},
		&CourseReadLog{},
	}
}
