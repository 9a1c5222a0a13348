package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

func TestCatalogReplacesWholeListInOrder(t *testing.T) {
	first := []types.MatchResult{{OpportunityID: uuid.New(), MatchScore: 91}, {OpportunityID: uuid.New(), MatchScore: 40}}
	second := []types.MatchResult{{OpportunityID: uuid.New(), MatchScore: 70}}
	batch := first
	api := &fakeAPI{listMatches: func() ([]types.MatchResult, error) { return batch, nil }}
	c := NewMatchCatalog(api, nil)

	if err := c.Load(context.Background(), studentSess()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := c.Matches()
	if len(got) != 2 || got[0].MatchScore != 91 || got[1].MatchScore != 40 {
		t.Fatalf("matches=%+v", got)
	}
	if _, ok := c.Lookup(first[1].OpportunityID); !ok {
		t.Fatalf("lookup failed")
	}

	batch = second
	if err := c.Load(context.Background(), studentSess()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := c.Matches(); len(got) != 1 || got[0].MatchScore != 70 {
		t.Fatalf("matches after reload=%+v", got)
	}
}

func TestCatalogFailureKeepsPreviousList(t *testing.T) {
	fail := false
	api := &fakeAPI{listMatches: func() ([]types.MatchResult, error) {
		if fail {
			return nil, apierr.FromHTTP(502, "", "")
		}
		return []types.MatchResult{{MatchScore: 60}}, nil
	}}
	c := NewMatchCatalog(api, nil)
	if err := c.Load(context.Background(), studentSess()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	fail = true
	if err := c.Load(context.Background(), studentSess()); !errors.Is(err, apierr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if len(c.Matches()) != 1 {
		t.Fatalf("failed load cleared the cache")
	}
	if api.count("ListMatches") != 2 {
		t.Fatalf("catalog retried on its own")
	}
}

func TestCatalogLoadClassifiesPlainErrors(t *testing.T) {
	api := &fakeAPI{listMatches: func() ([]types.MatchResult, error) {
		return nil, errors.New("connection reset by peer")
	}}
	c := NewMatchCatalog(api, nil)
	err := c.Load(context.Background(), studentSess())
	if !errors.Is(err, apierr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if apierr.KindOf(err) != apierr.KindNetwork {
		t.Fatalf("kind=%q", apierr.KindOf(err))
	}
}

func TestCatalogViewsDoNotShareSlices(t *testing.T) {
	opp := uuid.New()
	api := &fakeAPI{listMatches: func() ([]types.MatchResult, error) {
		return []types.MatchResult{{
			OpportunityID:  opp,
			MissingSkills:  []string{"PyTorch"},
			ResearchTrends: []string{"diffusion"},
		}}, nil
	}}
	c := NewMatchCatalog(api, nil)
	if err := c.Load(context.Background(), studentSess()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	view := c.Matches()
	view[0].MissingSkills[0] = "changed"
	view[0].ResearchTrends[0] = "changed"
	found, _ := c.Lookup(opp)
	found.MissingSkills[0] = "changed again"

	got := c.Matches()
	if got[0].MissingSkills[0] != "PyTorch" || got[0].ResearchTrends[0] != "diffusion" {
		t.Fatalf("cache mutated through a view: %+v", got[0])
	}
}
