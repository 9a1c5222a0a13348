package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/repos/applications"
	"github.com/yungbote/scholarlink/internal/data/repos/matching"
	"github.com/yungbote/scholarlink/internal/data/repos/planning"
	"github.com/yungbote/scholarlink/internal/data/repos/research"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type OpportunityRepo = applications.OpportunityRepo
type ApplicationRepo = applications.ApplicationRepo

type MatchResultRepo = matching.MatchResultRepo
type StudentProfileRepo = matching.StudentProfileRepo

type PlanRepo = planning.PlanRepo

type SavedGapRepo = research.SavedGapRepo
type GapSuggestionRepo = research.GapSuggestionRepo

// Set is every repo the backend needs, bound to one *gorm.DB.
type Set struct {
	Opportunity    OpportunityRepo
	Application    ApplicationRepo
	MatchResult    MatchResultRepo
	StudentProfile StudentProfileRepo
	Plan           PlanRepo
	SavedGap       SavedGapRepo
	GapSuggestion  GapSuggestionRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Opportunity:    applications.NewOpportunityRepo(db, log),
		Application:    applications.NewApplicationRepo(db, log),
		MatchResult:    matching.NewMatchResultRepo(db, log),
		StudentProfile: matching.NewStudentProfileRepo(db, log),
		Plan:           planning.NewPlanRepo(db, log),
		SavedGap:       research.NewSavedGapRepo(db, log),
		GapSuggestion:  research.NewGapSuggestionRepo(db, log),
	}
}
