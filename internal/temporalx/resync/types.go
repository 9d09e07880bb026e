package resync

import "github.com/yungbote/nurture-backend/internal/services"

const (
	WorkflowName    = "personality_resync"
	ActivityDemote  = "personality_resync_demote"
	ActivityPromote = "personality_resync_promote"
)

// Input identifies the user whose queue is rebuilt and the personality result
// it is rebuilt for. IDs travel as strings to keep history readable.
type Input struct {
	UserID              string `json:"user_id"`
	PersonalityResultID string `json:"personality_result_id"`
}

type Result struct {
	Demoted     int                    `json:"demoted"`
	DemoteError string                 `json:"demote_error,omitempty"`
	Promote     services.PromoteReport `json:"promote"`
}
