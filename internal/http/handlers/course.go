package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/http/response"
	"github.com/yungbote/nurture-backend/internal/services"
)

type CourseHandler struct {
	units services.CourseUnitService
}

func NewCourseHandler(units services.CourseUnitService) *CourseHandler {
	return &CourseHandler{units: units}
}

// PUT /api/courses/:courseId/content
// body: {"data": {"content": [<content block>, ...]}}
// Page breaks without a unit_uuid, or repeating an earlier one, get a new id.
func (h *CourseHandler) SaveContent(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}
	var req struct {
		Data struct {
			Content types.ContentBlocks `json:"content"`
		} `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, stats, err := h.units.SaveCourseContent(c.Request.Context(), courseID, req.Data.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Data(c, course.Summary(), gin.H{"units": stats})
}

// GET /api/courses/:courseId/units
func (h *CourseHandler) Units(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}
	ids, err := h.units.UnitIdentifiers(c.Request.Context(), courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Data(c, ids, gin.H{"total": len(ids)})
}
