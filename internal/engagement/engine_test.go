package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/session"
)

func TestRefreshLoadsStudentCollections(t *testing.T) {
	api := &fakeAPI{}
	e := New(api, Options{})
	defer e.Close()

	if err := e.Refresh(context.Background(), studentSess()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	for _, name := range []string{"ListMatches", "ListMyApplications", "ListMyImprovementPlans", "ListSavedResearchGaps"} {
		if api.count(name) != 1 {
			t.Errorf("%s calls=%d want 1", name, api.count(name))
		}
	}
	if api.count("ListMentorApplications") != 0 {
		t.Errorf("student refresh loaded mentor applications")
	}
	if e.Applications.Scope() != ScopeMine {
		t.Errorf("scope=%q", e.Applications.Scope())
	}
}

func TestRefreshLoadsMentorCollections(t *testing.T) {
	api := &fakeAPI{}
	e := New(api, Options{})
	defer e.Close()

	if err := e.Refresh(context.Background(), mentorSess()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if api.count("ListMentorApplications") != 1 || api.count("ListMatches") != 0 {
		t.Fatalf("calls=%v", api.calls)
	}
}

func TestRefreshWithoutCredentialIsAuthError(t *testing.T) {
	api := &fakeAPI{}
	e := New(api, Options{})
	defer e.Close()

	err := e.Refresh(context.Background(), session.Session{UserID: uuid.New(), Role: session.RoleStudent})
	if !errors.Is(err, apierr.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if api.total() != 0 {
		t.Fatalf("calls=%v", api.calls)
	}
}
