package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/http/response"
	"github.com/yungbote/nurture-backend/internal/services"
)

type RecommendationHandler struct {
	reco services.RecommendationService
}

func NewRecommendationHandler(reco services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{reco: reco}
}

type pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type recommendationMeta struct {
	AllCompleted bool       `json:"allCompleted"`
	Pagination   pagination `json:"pagination"`
}

// GET /api/my-recommend-course
func (h *RecommendationHandler) MyRecommendations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.reco.GetRecommendations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	size := types.RecommendationQueueSize
	total := len(out.Courses)
	response.Data(c, out.Courses, recommendationMeta{
		AllCompleted: out.AllCompleted,
		Pagination: pagination{
			Page:      1,
			PageSize:  size,
			PageCount: (total + size - 1) / size,
			Total:     total,
		},
	})
}
