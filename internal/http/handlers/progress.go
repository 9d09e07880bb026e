package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nurture-backend/internal/http/response"
	"github.com/yungbote/nurture-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

type pageReadRequest struct {
	Data struct {
		UnitUUID  string                 `json:"unit_uuid"`
		EventType string                 `json:"event_type"`
		DwellMS   *int                   `json:"dwell_ms"`
		SessionID string                 `json:"session_id"`
		EventID   string                 `json:"event_id"`
		ClientTS  *time.Time             `json:"client_ts"`
		Metadata  map[string]interface{} `json:"metadata"`
	} `json:"data"`
}

// POST /api/me/courses/:courseId/read
// body: {"data": {"unit_uuid": "...", "event_type": "page_view", "dwell_ms": 1200, ...}}
func (h *ProgressHandler) RecordRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}
	var req pageReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.progress.IngestPageRead(c.Request.Context(), services.PageReadInput{
		UserID:    userID,
		CourseID:  courseID,
		UnitUUID:  req.Data.UnitUUID,
		EventType: req.Data.EventType,
		DwellMS:   req.Data.DwellMS,
		SessionID: req.Data.SessionID,
		EventID:   req.Data.EventID,
		ClientTS:  req.Data.ClientTS,
		Metadata:  req.Data.Metadata,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Data(c, view, nil)
}
