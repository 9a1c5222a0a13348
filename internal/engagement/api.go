// Package engagement is the client-side workflow engine for applications, match
// scores, improvement plans and saved research gaps. It caches what the backend
// returns, applies optimistic changes and reconciles them against the backend.
package engagement

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/session"
)

// API is the backend collaborator. *engagementapi.Client implements it.
type API interface {
	ListMatches(ctx context.Context, sess session.Session) ([]types.MatchResult, error)
	AnalyzeMatch(ctx context.Context, sess session.Session, opportunityID uuid.UUID) (types.MatchPreview, error)

	SubmitApplication(ctx context.Context, sess session.Session, draft engagementapi.ApplicationDraft) (types.Application, error)
	ListMyApplications(ctx context.Context, sess session.Session) ([]types.Application, error)
	ListMentorApplications(ctx context.Context, sess session.Session) ([]types.Application, error)
	UpdateApplicationStatus(ctx context.Context, sess session.Session, applicationID uuid.UUID, status types.ApplicationStatus) (types.Application, error)

	GenerateImprovementPlan(ctx context.Context, sess session.Session, opportunityID uuid.UUID) (types.ImprovementPlan, error)
	ListMyImprovementPlans(ctx context.Context, sess session.Session) ([]types.ImprovementPlan, error)
	UpdatePlanItemStatus(ctx context.Context, sess session.Session, itemID uuid.UUID, status types.PlanItemStatus) (types.PlanItem, error)

	DiscoverResearchGaps(ctx context.Context, sess session.Session, mentorID, studentID uuid.UUID) ([]types.ResearchGap, error)
	SaveResearchGap(ctx context.Context, sess session.Session, req engagementapi.SaveGapRequest) (types.SavedResearchGap, error)
	ListSavedResearchGaps(ctx context.Context, sess session.Session) ([]types.SavedResearchGap, error)
	DeleteSavedResearchGap(ctx context.Context, sess session.Session, id uuid.UUID) error
}

var _ API = (*engagementapi.Client)(nil)
