package matching

import (
	"time"

	"github.com/google/uuid"
)

// StudentProfile is the input to scoring: what the student knows and wants to work on.
type StudentProfile struct {
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"student_id"`
	Name      string    `gorm:"column:name" json:"name"`
	Skills    []string  `gorm:"column:skills;serializer:json;type:text" json:"skills"`
	Interests []string  `gorm:"column:interests;serializer:json;type:text" json:"interests"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentProfile) TableName() string { return "student_profile" }
