package applications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpportunityType string

const (
	OpportunityInternship        OpportunityType = "internship"
	OpportunityResearchAssistant OpportunityType = "research_assistant"
	OpportunityPhDGuidance       OpportunityType = "phd_guidance"
	OpportunityGrant             OpportunityType = "grant"
	OpportunityIndustrialVisit   OpportunityType = "industrial_visit"
	OpportunityBeehiveEvent      OpportunityType = "beehive_event"
)

func (t OpportunityType) Valid() bool {
	switch t {
	case OpportunityInternship, OpportunityResearchAssistant, OpportunityPhDGuidance,
		OpportunityGrant, OpportunityIndustrialVisit, OpportunityBeehiveEvent:
		return true
	}
	return false
}

// Opportunity is owned by the backend; the engine only reads it.
type Opportunity struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MentorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"mentor_id"`
	Type        OpportunityType `gorm:"column:type;not null" json:"type"`
	Title       string          `gorm:"column:title;not null" json:"title"`
	Description string          `gorm:"column:description" json:"description"`
	Deadline    *time.Time      `gorm:"column:deadline" json:"deadline,omitempty"`
	Slots       int             `gorm:"column:slots;not null;default:1" json:"slots"`
	IsOpen      bool            `gorm:"column:is_open;not null" json:"is_open"`

	RequiredSkills []string `gorm:"column:required_skills;serializer:json;type:text" json:"required_skills,omitempty"`
	ResearchAreas  []string `gorm:"column:research_areas;serializer:json;type:text" json:"research_areas,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Opportunity) TableName() string { return "opportunity" }

func (o *Opportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
