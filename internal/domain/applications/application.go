package applications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusReviewing Status = "reviewing"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusReviewing, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition reports whether a mentor may move an application from s to next.
// Re-sending the current status is allowed so terminal updates stay idempotent.
func (s Status) CanTransition(next Status) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case StatusSubmitted:
		return next == StatusReviewing || next == StatusAccepted || next == StatusRejected
	case StatusReviewing:
		return next == StatusAccepted || next == StatusRejected
	default:
		return false
	}
}

// Application is unique per (student, opportunity).
type Application struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OpportunityID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_opportunity,priority:2" json:"opportunity_id"`
	StudentID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_opportunity,priority:1" json:"student_id"`
	CoverLetter   string         `gorm:"column:cover_letter;not null" json:"cover_letter"`
	MatchScore    *float64       `gorm:"column:match_score" json:"match_score,omitempty"`
	MatchDetails  datatypes.JSON `gorm:"column:match_details" json:"match_details,omitempty"`
	Status        Status         `gorm:"column:status;not null;index" json:"status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;references:ID" json:"opportunity,omitempty"`
}

func (Application) TableName() string { return "application" }

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusSubmitted
	}
	return nil
}
