package engagementapi

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/scholarlink/internal/domain"
)

// ApplicationDraft is the body of POST applications.
type ApplicationDraft struct {
	OpportunityID uuid.UUID      `json:"opportunity_id"`
	CoverLetter   string         `json:"cover_letter"`
	MatchScore    *float64       `json:"match_score,omitempty"`
	MatchDetails  datatypes.JSON `json:"match_details,omitempty"`
}

// SaveGapRequest is the body of POST saved-research-gaps. Related papers travel as an
// opaque string blob.
type SaveGapRequest struct {
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
}

func NewSaveGapRequest(mentorID, studentID uuid.UUID, g types.ResearchGap) SaveGapRequest {
	return SaveGapRequest{
		MentorID:         mentorID,
		StudentID:        studentID,
		Title:            g.Title,
		Description:      g.Description,
		Type:             g.Type,
		WhyGap:           g.WhyGap,
		ReasonStudent:    g.ReasonStudent,
		ReasonMentor:     g.ReasonMentor,
		FeasibilityScore: g.FeasibilityScore,
		ConfidenceScore:  g.ConfidenceScore,
		RelatedPapers:    g.RelatedPapers.Blob(),
	}
}

type statusUpdate struct {
	Status string `json:"status"`
}

type matchesResponse struct {
	Matches []types.MatchResult `json:"matches"`
}

type previewResponse struct {
	Preview types.MatchPreview `json:"preview"`
}

type applicationResponse struct {
	Application types.Application `json:"application"`
}

type applicationsResponse struct {
	Applications []types.Application `json:"applications"`
}

type planResponse struct {
	Plan types.ImprovementPlan `json:"plan"`
}

type plansResponse struct {
	Plans []types.ImprovementPlan `json:"plans"`
}

type itemResponse struct {
	Item types.PlanItem `json:"item"`
}

type gapsResponse struct {
	Gaps []types.ResearchGap `json:"gaps"`
}

type savedGapResponse struct {
	Gap types.SavedResearchGap `json:"gap"`
}

type savedGapsResponse struct {
	Gaps []types.SavedResearchGap `json:"gaps"`
}
