package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/services"
)

type ApplicationHandler struct {
	applications services.ApplicationService
}

func NewApplicationHandler(applications services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// POST /applications
// body: { "opportunity_id": "...", "cover_letter": "...", "match_score": 0, "match_details": {} }
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req struct {
		OpportunityID uuid.UUID      `json:"opportunity_id"`
		CoverLetter   string         `json:"cover_letter"`
		MatchScore    *float64       `json:"match_score"`
		MatchDetails  datatypes.JSON `json:"match_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	app, err := h.applications.Submit(c.Request.Context(), services.SubmitApplicationInput{
		OpportunityID: req.OpportunityID,
		CoverLetter:   req.CoverLetter,
		MatchScore:    req.MatchScore,
		MatchDetails:  req.MatchDetails,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"application": app})
}

// GET /applications/mine
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applications.ListMine(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applications": apps})
}

// GET /applications/mentor
func (h *ApplicationHandler) ListForMentor(c *gin.Context) {
	apps, err := h.applications.ListForMentor(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applications": apps})
}

// PATCH /applications/:id/status (PUT is served too)
// body: { "status": "reviewing" }
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	app, err := h.applications.UpdateStatus(c.Request.Context(), id, types.ApplicationStatus(req.Status))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"application": app})
}
