package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/services"
)

type PlanHandler struct {
	plans services.PlanService
}

func NewPlanHandler(plans services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// POST /improvement-plans/:id
func (h *PlanHandler) Generate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.Generate(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"plan": plan})
}

// GET /improvement-plans/mine
func (h *PlanHandler) ListMine(c *gin.Context) {
	plans, err := h.plans.ListMine(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plans": plans})
}

// PATCH /plan-items/:id
// body: { "status": "in_progress" }
func (h *PlanHandler) UpdateItemStatus(c *gin.Context) {
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
	item, err := h.plans.UpdateItemStatus(c.Request.Context(), id, types.PlanItemStatus(req.Status))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}
