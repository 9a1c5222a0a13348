package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/services"
)

type MatchHandler struct {
	matches services.MatchService
}

func NewMatchHandler(matches services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// GET /matches
func (h *MatchHandler) List(c *gin.Context) {
	out, err := h.matches.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"matches": out})
}

// POST /analyze-match/:id (GET is served too)
func (h *MatchHandler) Analyze(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	preview, err := h.matches.Analyze(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preview": preview})
}
