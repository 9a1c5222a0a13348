package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

func TestSubmitTwiceIsDuplicate(t *testing.T) {
	api := &fakeAPI{}
	l := NewApplicationLedger(api, nil)
	sess := studentSess()
	opp := uuid.New()

	if _, err := l.Submit(context.Background(), sess, opp, "I build parsers.", nil, nil); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := l.Submit(context.Background(), sess, opp, "Again.", nil, nil)
	if !errors.Is(err, apierr.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate application error, got %v", err)
	}
	if n := api.count("SubmitApplication"); n != 1 {
		t.Fatalf("SubmitApplication calls=%d want 1", n)
	}
	matching := 0
	for _, a := range l.Applications() {
		if a.OpportunityID == opp && a.StudentID == sess.UserID {
			matching++
		}
	}
	if matching != 1 {
		t.Fatalf("cached applications for pair=%d want 1", matching)
	}
}

func TestSubmitBackendDuplicateIsSurfaced(t *testing.T) {
	api := &fakeAPI{submit: func(engagementapi.ApplicationDraft) (types.Application, error) {
		return types.Application{}, apierr.FromHTTP(400, "", "You have already applied to this opportunity")
	}}
	l := NewApplicationLedger(api, nil)

	_, err := l.Submit(context.Background(), studentSess(), uuid.New(), "hello", nil, nil)
	if !errors.Is(err, apierr.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate application error, got %v", err)
	}
	if len(l.Applications()) != 0 {
		t.Fatalf("failed submit was cached")
	}
}

func TestSubmitValidatesLocally(t *testing.T) {
	api := &fakeAPI{}
	l := NewApplicationLedger(api, nil)
	bad := 120.0

	cases := map[string]func() error{
		"blank cover letter": func() error {
			_, err := l.Submit(context.Background(), studentSess(), uuid.New(), "   ", nil, nil)
			return err
		},
		"score out of range": func() error {
			_, err := l.Submit(context.Background(), studentSess(), uuid.New(), "hi", &bad, nil)
			return err
		},
		"missing opportunity": func() error {
			_, err := l.Submit(context.Background(), studentSess(), uuid.Nil, "hi", nil, nil)
			return err
		},
	}
	for name, fn := range cases {
		if err := fn(); !errors.Is(err, apierr.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
	if api.total() != 0 {
		t.Fatalf("validation failures reached the backend: %v", api.calls)
	}
}

func TestSubmitSendsMatchDetails(t *testing.T) {
	var got engagementapi.ApplicationDraft
	api := &fakeAPI{submit: func(d engagementapi.ApplicationDraft) (types.Application, error) {
		got = d
		return types.Application{ID: uuid.New(), OpportunityID: d.OpportunityID}, nil
	}}
	l := NewApplicationLedger(api, nil)
	score := 87.5

	app, err := l.Submit(context.Background(), studentSess(), uuid.New(), "hi", &score, map[string]any{"semantic": 80})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.MatchScore == nil || *got.MatchScore != 87.5 {
		t.Fatalf("match score not sent: %+v", got.MatchScore)
	}
	if string(got.MatchDetails) != `{"semantic":80}` {
		t.Fatalf("match details=%s", got.MatchDetails)
	}
	if app.Status != types.ApplicationSubmitted {
		t.Fatalf("status=%q", app.Status)
	}
}

func loadedMentorLedger(t *testing.T, api *fakeAPI, apps ...types.Application) *ApplicationLedger {
	t.Helper()
	api.listMentor = func() ([]types.Application, error) {
		return append([]types.Application(nil), apps...), nil
	}
	l := NewApplicationLedger(api, nil)
	if err := l.ListForMentor(context.Background(), mentorSess()); err != nil {
		t.Fatalf("ListForMentor: %v", err)
	}
	return l
}

func TestUpdateStatusRevertsOnFailure(t *testing.T) {
	id := uuid.New()
	api := &fakeAPI{updateAppStatus: func(context.Context, uuid.UUID, types.ApplicationStatus) (types.Application, error) {
		return types.Application{}, apierr.Network(errors.New("connection refused"))
	}}
	l := loadedMentorLedger(t, api, types.Application{ID: id, Status: types.ApplicationReviewing})

	var seen []types.ApplicationStatus
	unsub := l.Subscribe(func(apps []types.Application) { seen = append(seen, apps[0].Status) })
	defer unsub()

	err := l.UpdateStatus(context.Background(), mentorSess(), id, types.ApplicationAccepted)
	if !errors.Is(err, apierr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	got, _ := l.Get(id)
	if got.Status != types.ApplicationReviewing {
		t.Fatalf("status=%q want reviewing", got.Status)
	}
	if len(seen) != 2 || seen[0] != types.ApplicationAccepted || seen[1] != types.ApplicationReviewing {
		t.Fatalf("observed=%v", seen)
	}
}

func TestUpdateStatusKeepsOptimisticValueOnSuccess(t *testing.T) {
	id := uuid.New()
	api := &fakeAPI{}
	l := loadedMentorLedger(t, api, types.Application{ID: id, Status: types.ApplicationSubmitted})

	if err := l.UpdateStatus(context.Background(), mentorSess(), id, types.ApplicationReviewing); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := l.Get(id)
	if got.Status != types.ApplicationReviewing {
		t.Fatalf("status=%q", got.Status)
	}
}

func TestUpdateStatusRejectsIllegalTransitionLocally(t *testing.T) {
	id := uuid.New()
	api := &fakeAPI{}
	l := loadedMentorLedger(t, api, types.Application{ID: id, Status: types.ApplicationAccepted})

	err := l.UpdateStatus(context.Background(), mentorSess(), id, types.ApplicationReviewing)
	if !errors.Is(err, apierr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.count("UpdateApplicationStatus") != 0 {
		t.Fatalf("illegal transition reached the backend")
	}
}

func TestUpdateStatusSameStatusIsForwarded(t *testing.T) {
	id := uuid.New()
	api := &fakeAPI{}
	l := loadedMentorLedger(t, api, types.Application{ID: id, Status: types.ApplicationAccepted})

	if err := l.UpdateStatus(context.Background(), mentorSess(), id, types.ApplicationAccepted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if api.count("UpdateApplicationStatus") != 1 {
		t.Fatalf("same-status update was not forwarded")
	}
}

func TestUpdateStatusConflictReloadsScope(t *testing.T) {
	id := uuid.New()
	api := &fakeAPI{updateAppStatus: func(context.Context, uuid.UUID, types.ApplicationStatus) (types.Application, error) {
		return types.Application{}, apierr.FromHTTP(409, apierr.CodeInvalidTransition, "application already decided")
	}}
	l := loadedMentorLedger(t, api, types.Application{ID: id, Status: types.ApplicationSubmitted})
	api.listMentor = func() ([]types.Application, error) {
		return []types.Application{{ID: id, Status: types.ApplicationRejected}}, nil
	}

	err := l.UpdateStatus(context.Background(), mentorSess(), id, types.ApplicationAccepted)
	if !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if n := api.count("ListMentorApplications"); n != 2 {
		t.Fatalf("ListMentorApplications calls=%d want 2", n)
	}
	got, _ := l.Get(id)
	if got.Status != types.ApplicationRejected {
		t.Fatalf("status=%q want reloaded rejected", got.Status)
	}
}

func TestConcurrentUpdateOnSameApplicationIsInFlight(t *testing.T) {
	id := uuid.New()
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{updateAppStatus: func(context.Context, uuid.UUID, types.ApplicationStatus) (types.Application, error) {
		close(entered)
		<-release
		return types.Application{}, nil
	}}
	l := loadedMentorLedger(t, api, types.Application{ID: id, Status: types.ApplicationSubmitted})

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = l.UpdateStatus(context.Background(), mentorSess(), id, types.ApplicationReviewing)
	}()
	<-entered

	err := l.UpdateStatus(context.Background(), mentorSess(), id, types.ApplicationRejected)
	close(release)
	wg.Wait()

	if !errors.Is(err, apierr.ErrInFlight) {
		t.Fatalf("expected in-flight error, got %v", err)
	}
	if firstErr != nil {
		t.Fatalf("first update: %v", firstErr)
	}
	got, _ := l.Get(id)
	if got.Status != types.ApplicationReviewing {
		t.Fatalf("status=%q", got.Status)
	}
}

func TestLedgerViewsAreDeepCopies(t *testing.T) {
	id := uuid.New()
	score := 82.5
	deadline := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{}
	l := loadedMentorLedger(t, api, types.Application{
		ID:           id,
		Status:       types.ApplicationSubmitted,
		MatchScore:   &score,
		MatchDetails: datatypes.JSON(`{"score":82.5}`),
		Opportunity: &types.Opportunity{
			Title:          "Vision lab",
			Deadline:       &deadline,
			RequiredSkills: []string{"CUDA"},
		},
	})

	apps := l.Applications()
	apps[0].MatchDetails[0] = 'X'
	*apps[0].MatchScore = 0
	apps[0].Opportunity.Title = "changed"
	apps[0].Opportunity.RequiredSkills[0] = "changed"
	*apps[0].Opportunity.Deadline = time.Time{}

	got, _ := l.Get(id)
	if string(got.MatchDetails) != `{"score":82.5}` || *got.MatchScore != 82.5 {
		t.Fatalf("match fields mutated through a view: %s %v", got.MatchDetails, *got.MatchScore)
	}
	if got.Opportunity.Title != "Vision lab" || got.Opportunity.RequiredSkills[0] != "CUDA" || !got.Opportunity.Deadline.Equal(deadline) {
		t.Fatalf("opportunity mutated through a view: %+v", got.Opportunity)
	}
}
