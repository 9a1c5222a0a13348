package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResearchGap is an AI-suggested gap for a mentor/student pair. It is not persisted
// until a user saves it.
type ResearchGap struct {
	Title            string    `gorm:"column:title;not null" json:"title"`
	Description      string    `gorm:"column:description" json:"description"`
	Type             string    `gorm:"column:type" json:"type"`
	WhyGap           string    `gorm:"column:why_gap" json:"why_gap"`
	ReasonStudent    string    `gorm:"column:reason_student" json:"reason_student"`
	ReasonMentor     string    `gorm:"column:reason_mentor" json:"reason_mentor"`
	FeasibilityScore float64   `gorm:"column:feasibility_score" json:"feasibility_score"`
	ConfidenceScore  float64   `gorm:"column:confidence_score" json:"confidence_score"`
	RelatedPapers    PaperList `gorm:"column:related_papers;type:text" json:"related_papers"`
}

type SavedResearchGap struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	MentorID  uuid.UUID `gorm:"type:uuid;index" json:"mentor_id"`
	StudentID uuid.UUID `gorm:"type:uuid;index" json:"student_id"`
	ResearchGap
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (SavedResearchGap) TableName() string { return "saved_research_gap" }

func (g *SavedResearchGap) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// GapSuggestion is the backend's stored suggestion row for a mentor/student pair.
type GapSuggestion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MentorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_gap_suggestion_pair,priority:1" json:"mentor_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_gap_suggestion_pair,priority:2" json:"student_id"`
	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
	ResearchGap
}

func (GapSuggestion) TableName() string { return "research_gap_suggestion" }

func (g *GapSuggestion) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
