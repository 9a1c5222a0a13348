package matching

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchResult is a read-only ranked match for one student. Rank is assigned by the
// backend and the list is always replaced as a whole.
type MatchResult struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_student_opportunity,priority:1" json:"student_id"`
	OpportunityID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_student_opportunity,priority:2" json:"opportunity_id"`
	MentorID       uuid.UUID `gorm:"type:uuid;not null;index" json:"mentor_id"`
	Title          string    `gorm:"column:title" json:"title,omitempty"`
	Rank           int       `gorm:"column:rank;not null;default:0" json:"rank"`
	MatchScore     float64   `gorm:"column:match_score;not null" json:"match_score"`
	SemanticScore  float64   `gorm:"column:semantic_score;not null" json:"semantic_score"`
	AlignmentScore float64   `gorm:"column:alignment_score;not null" json:"alignment_score"`
	Explanation    string    `gorm:"column:explanation" json:"explanation"`
	MissingSkills  []string  `gorm:"column:missing_skills;serializer:json;type:text" json:"missing_skills,omitempty"`
	ResearchTrends []string  `gorm:"column:research_trends;serializer:json;type:text" json:"research_trends,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MatchResult) TableName() string { return "match_result" }

func (m *MatchResult) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MatchPreview is the transient result of an on-demand fit analysis.
type MatchPreview struct {
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Score         float64   `json:"score"`
	Explanation   string    `json:"explanation"`
	MissingSkills []string  `json:"missing_skills,omitempty"`
}
