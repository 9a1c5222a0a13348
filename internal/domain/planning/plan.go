package planning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemType string

const (
	ItemSkillGap    ItemType = "skill_gap"
	ItemMiniProject ItemType = "mini_project"
	ItemReadingList ItemType = "reading_list"
	ItemSOP         ItemType = "sop"
	ItemOther       ItemType = "other"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in_progress"
	ItemCompleted  ItemStatus = "completed"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemInProgress, ItemCompleted:
		return true
	}
	return false
}

func (s ItemStatus) rank() int {
	switch s {
	case ItemPending:
		return 0
	case ItemInProgress:
		return 1
	case ItemCompleted:
		return 2
	}
	return -1
}

// Forward reports whether next moves s forward. Completed is terminal.
// Skipping in_progress is a forward move at the data-model level; callers
// that require the two-step path check for it themselves.
func (s ItemStatus) Forward(next ItemStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() > s.rank()
}

type ImprovementPlan struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_plan_student_opportunity,priority:1" json:"student_id"`
	OpportunityID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_plan_student_opportunity,priority:2" json:"opportunity_id"`
	OpportunityTitle string     `gorm:"column:opportunity_title" json:"opportunity_title"`
	Items            []PlanItem `gorm:"foreignKey:PlanID" json:"items"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ImprovementPlan) TableName() string { return "improvement_plan" }

func (p *ImprovementPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PlanItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_id"`
	Position        int        `gorm:"column:position;not null;default:0" json:"position"`
	Type            ItemType   `gorm:"column:type;not null" json:"type"`
	Title           string     `gorm:"column:title;not null" json:"title"`
	Description     string     `gorm:"column:description" json:"description"`
	Priority        Priority   `gorm:"column:priority;not null" json:"priority"`
	EstimatedEffort string     `gorm:"column:estimated_effort" json:"estimated_effort"`
	Deadline        *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	Status          ItemStatus `gorm:"column:status;not null" json:"status"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PlanItem) TableName() string { return "plan_item" }

func (i *PlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = ItemPending
	}
	return nil
}
