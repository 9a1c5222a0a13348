package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/services"
)

type ResearchHandler struct {
	research services.ResearchService
}

func NewResearchHandler(research services.ResearchService) *ResearchHandler {
	return &ResearchHandler{research: research}
}

// savedGapDTO is the wire shape of a stored gap; related papers go out as the stored blob.
type savedGapDTO struct {
	ID               uuid.UUID `json:"id"`
	MentorID         uuid.UUID `json:"mentor_id"`
	StudentID        uuid.UUID `json:"student_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Type             string    `json:"type"`
	WhyGap           string    `json:"why_gap"`
	ReasonStudent    string    `json:"reason_student"`
	ReasonMentor     string    `json:"reason_mentor"`
	FeasibilityScore float64   `json:"feasibility_score"`
	ConfidenceScore  float64   `json:"confidence_score"`
	RelatedPapers    string    `json:"related_papers"`
	CreatedAt        time.Time `json:"created_at"`
}

func toSavedGapDTO(g *types.SavedResearchGap) savedGapDTO {
	return savedGapDTO{
		ID:               g.ID,
		MentorID:         g.MentorID,
		StudentID:        g.StudentID,
		Title:            g.Title,
		Description:      g.Description,
		Type:             g.Type,
		WhyGap:           g.WhyGap,
		ReasonStudent:    g.ReasonStudent,
		ReasonMentor:     g.ReasonMentor,
		FeasibilityScore: g.FeasibilityScore,
		ConfidenceScore:  g.ConfidenceScore,
		RelatedPapers:    g.RelatedPapers.Blob(),
		CreatedAt:        g.CreatedAt,
	}
}

// GET /research-gaps/:mentorId/:studentId
func (h *ResearchHandler) Discover(c *gin.Context) {
	mentorID, ok := uuidParam(c, "mentorId")
	if !ok {
		return
	}
	studentID, ok := uuidParam(c, "studentId")
	if !ok {
		return
	}
	gaps, err := h.research.Discover(c.Request.Context(), mentorID, studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"gaps": gaps})
}

// POST /saved-research-gaps
// related_papers may be an array or a serialized string.
func (h *ResearchHandler) Save(c *gin.Context) {
	var req struct {
		MentorID  uuid.UUID `json:"mentor_id"`
		StudentID uuid.UUID `json:"student_id"`
		types.ResearchGap
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	saved, err := h.research.Save(c.Request.Context(), services.SaveGapInput{
		MentorID:  req.MentorID,
		StudentID: req.StudentID,
		Gap:       req.ResearchGap,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"gap": toSavedGapDTO(saved)})
}

// GET /saved-research-gaps
func (h *ResearchHandler) ListSaved(c *gin.Context) {
	rows, err := h.research.ListSaved(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]savedGapDTO, 0, len(rows))
	for _, g := range rows {
		out = append(out, toSavedGapDTO(g))
	}
	response.RespondOK(c, gin.H{"gaps": out})
}

// DELETE /saved-research-gaps/:id
func (h *ResearchHandler) DeleteSaved(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.research.DeleteSaved(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
