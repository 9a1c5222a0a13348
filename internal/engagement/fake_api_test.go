package engagement

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/session"
)

// fakeAPI records calls per method and delegates to the optional hooks. Unset hooks
// succeed with zero values.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	listMatches      func() ([]types.MatchResult, error)
	analyzeMatch     func(ctx context.Context, id uuid.UUID) (types.MatchPreview, error)
	submit           func(d engagementapi.ApplicationDraft) (types.Application, error)
	listMine         func() ([]types.Application, error)
	listMentor       func() ([]types.Application, error)
	updateAppStatus  func(ctx context.Context, id uuid.UUID, s types.ApplicationStatus) (types.Application, error)
	generatePlan     func(id uuid.UUID) (types.ImprovementPlan, error)
	listPlans        func() ([]types.ImprovementPlan, error)
	updateItemStatus func(ctx context.Context, id uuid.UUID, s types.PlanItemStatus) (types.PlanItem, error)
	discover         func(mentorID, studentID uuid.UUID) ([]types.ResearchGap, error)
	saveGap          func(req engagementapi.SaveGapRequest) (types.SavedResearchGap, error)
	listSaved        func() ([]types.SavedResearchGap, error)
	deleteSaved      func(id uuid.UUID) error
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ListMatches(ctx context.Context, sess session.Session) ([]types.MatchResult, error) {
	f.hit("ListMatches")
	if f.listMatches == nil {
		return nil, nil
	}
	return f.listMatches()
}

func (f *fakeAPI) AnalyzeMatch(ctx context.Context, sess session.Session, id uuid.UUID) (types.MatchPreview, error) {
	f.hit("AnalyzeMatch")
	if f.analyzeMatch == nil {
		return types.MatchPreview{OpportunityID: id}, nil
	}
	return f.analyzeMatch(ctx, id)
}

func (f *fakeAPI) SubmitApplication(ctx context.Context, sess session.Session, d engagementapi.ApplicationDraft) (types.Application, error) {
	f.hit("SubmitApplication")
	if f.submit == nil {
		return types.Application{ID: uuid.New(), OpportunityID: d.OpportunityID, StudentID: sess.UserID, CoverLetter: d.CoverLetter, Status: types.ApplicationSubmitted}, nil
	}
	return f.submit(d)
}

func (f *fakeAPI) ListMyApplications(ctx context.Context, sess session.Session) ([]types.Application, error) {
	f.hit("ListMyApplications")
	if f.listMine == nil {
		return nil, nil
	}
	return f.listMine()
}

func (f *fakeAPI) ListMentorApplications(ctx context.Context, sess session.Session) ([]types.Application, error) {
	f.hit("ListMentorApplications")
	if f.listMentor == nil {
		return nil, nil
	}
	return f.listMentor()
}

func (f *fakeAPI) UpdateApplicationStatus(ctx context.Context, sess session.Session, id uuid.UUID, s types.ApplicationStatus) (types.Application, error) {
	f.hit("UpdateApplicationStatus")
	if f.updateAppStatus == nil {
		return types.Application{}, nil
	}
	return f.updateAppStatus(ctx, id, s)
}

func (f *fakeAPI) GenerateImprovementPlan(ctx context.Context, sess session.Session, id uuid.UUID) (types.ImprovementPlan, error) {
	f.hit("GenerateImprovementPlan")
	if f.generatePlan == nil {
		return types.ImprovementPlan{ID: uuid.New(), OpportunityID: id}, nil
	}
	return f.generatePlan(id)
}

func (f *fakeAPI) ListMyImprovementPlans(ctx context.Context, sess session.Session) ([]types.ImprovementPlan, error) {
	f.hit("ListMyImprovementPlans")
	if f.listPlans == nil {
		return nil, nil
	}
	return f.listPlans()
}

func (f *fakeAPI) UpdatePlanItemStatus(ctx context.Context, sess session.Session, id uuid.UUID, s types.PlanItemStatus) (types.PlanItem, error) {
	f.hit("UpdatePlanItemStatus")
	if f.updateItemStatus == nil {
		return types.PlanItem{}, nil
	}
	return f.updateItemStatus(ctx, id, s)
}

func (f *fakeAPI) DiscoverResearchGaps(ctx context.Context, sess session.Session, mentorID, studentID uuid.UUID) ([]types.ResearchGap, error) {
	f.hit("DiscoverResearchGaps")
	if f.discover == nil {
		return nil, nil
	}
	return f.discover(mentorID, studentID)
}

func (f *fakeAPI) SaveResearchGap(ctx context.Context, sess session.Session, req engagementapi.SaveGapRequest) (types.SavedResearchGap, error) {
	f.hit("SaveResearchGap")
	if f.saveGap == nil {
		return types.SavedResearchGap{ID: uuid.New()}, nil
	}
	return f.saveGap(req)
}

func (f *fakeAPI) ListSavedResearchGaps(ctx context.Context, sess session.Session) ([]types.SavedResearchGap, error) {
	f.hit("ListSavedResearchGaps")
	if f.listSaved == nil {
		return nil, nil
	}
	return f.listSaved()
}

func (f *fakeAPI) DeleteSavedResearchGap(ctx context.Context, sess session.Session, id uuid.UUID) error {
	f.hit("DeleteSavedResearchGap")
	if f.deleteSaved == nil {
		return nil
	}
	return f.deleteSaved(id)
}

var _ API = (*fakeAPI)(nil)

func studentSess() session.Session {
	return session.New(uuid.New(), session.RoleStudent, session.StaticToken("student-token"))
}

func mentorSess() session.Session {
	return session.New(uuid.New(), session.RoleMentor, session.StaticToken("mentor-token"))
}
