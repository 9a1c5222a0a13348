package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/scholarlink/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Opportunities + applications
		&types.Opportunity{},
		&types.Application{},

		// Matching
		&types.StudentProfile{},
		&types.MatchResult{},

		// Improvement plans
		&types.ImprovementPlan{},
		&types.PlanItem{},

		// Research gaps
		&types.GapSuggestion{},
		&types.SavedResearchGap{},
	)
}
