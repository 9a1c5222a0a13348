package domain

import (
	"github.com/yungbote/scholarlink/internal/domain/applications"
	"github.com/yungbote/scholarlink/internal/domain/matching"
	"github.com/yungbote/scholarlink/internal/domain/planning"
	"github.com/yungbote/scholarlink/internal/domain/research"
)

type (
	OpportunityType   = applications.OpportunityType
	Opportunity       = applications.Opportunity
	ApplicationStatus = applications.Status
	Application       = applications.Application

	MatchResult    = matching.MatchResult
	MatchPreview   = matching.MatchPreview
	StudentProfile = matching.StudentProfile

	ImprovementPlan = planning.ImprovementPlan
	PlanItem        = planning.PlanItem
	PlanItemType    = planning.ItemType
	PlanItemStatus  = planning.ItemStatus
	Priority        = planning.Priority

	ResearchGap      = research.ResearchGap
	SavedResearchGap = research.SavedResearchGap
	GapSuggestion    = research.GapSuggestion
	PaperList        = research.PaperList
)

const (
	OpportunityInternship        = applications.OpportunityInternship
	OpportunityResearchAssistant = applications.OpportunityResearchAssistant
	OpportunityPhDGuidance       = applications.OpportunityPhDGuidance
	OpportunityGrant             = applications.OpportunityGrant
	OpportunityIndustrialVisit   = applications.OpportunityIndustrialVisit
	OpportunityBeehiveEvent      = applications.OpportunityBeehiveEvent

	ApplicationSubmitted = applications.StatusSubmitted
	ApplicationReviewing = applications.StatusReviewing
	ApplicationAccepted  = applications.StatusAccepted
	ApplicationRejected  = applications.StatusRejected

	PlanItemSkillGap    = planning.ItemSkillGap
	PlanItemMiniProject = planning.ItemMiniProject
	PlanItemReadingList = planning.ItemReadingList
	PlanItemSOP         = planning.ItemSOP
	PlanItemOther       = planning.ItemOther

	PriorityLow    = planning.PriorityLow
	PriorityMedium = planning.PriorityMedium
	PriorityHigh   = planning.PriorityHigh

	ItemPending    = planning.ItemPending
	ItemInProgress = planning.ItemInProgress
	ItemCompleted  = planning.ItemCompleted
)

var ParsePaperList = research.ParsePaperList
