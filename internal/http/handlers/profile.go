package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/http/response"
	"github.com/yungbote/nurture-backend/internal/services"
)

type ProfileHandler struct {
	profiles services.UserProfileService
}

func NewProfileHandler(profiles services.UserProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// PUT /api/me/profile/personality
// body: {"personality_result": "<uuid>" | {"id": "<uuid>"} | {"connect": [...]} | null}
func (h *ProfileHandler) SetPersonality(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		PersonalityResult types.RelationRef `json:"personality_result"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	profile, err := h.profiles.SetPersonalityResult(c.Request.Context(), userID, req.PersonalityResult)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Data(c, profile, nil)
}
