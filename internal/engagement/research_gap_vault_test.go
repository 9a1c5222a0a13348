package engagement

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

// gapStore persists saved gaps the way the backend does: related papers as a blob.
type gapStore struct {
	mu   sync.Mutex
	rows []engagementapi.SaveGapRequest
	ids  []uuid.UUID
}

func (s *gapStore) save(req engagementapi.SaveGapRequest) (types.SavedResearchGap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, req)
	s.ids = append(s.ids, uuid.New())
	return s.rowLocked(len(s.rows) - 1), nil
}

func (s *gapStore) list() ([]types.SavedResearchGap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.SavedResearchGap, len(s.rows))
	for i := range s.rows {
		out[i] = s.rowLocked(i)
	}
	return out, nil
}

func (s *gapStore) rowLocked(i int) types.SavedResearchGap {
	r := s.rows[i]
	return types.SavedResearchGap{
		ID:        s.ids[i],
		MentorID:  r.MentorID,
		StudentID: r.StudentID,
		ResearchGap: types.ResearchGap{
			Title:         r.Title,
			RelatedPapers: types.ParsePaperList(r.RelatedPapers),
		},
	}
}

func discoveredVault(t *testing.T, api *fakeAPI, gaps ...types.ResearchGap) *ResearchGapVault {
	t.Helper()
	api.discover = func(uuid.UUID, uuid.UUID) ([]types.ResearchGap, error) {
		return append([]types.ResearchGap(nil), gaps...), nil
	}
	v := NewResearchGapVault(api, nil)
	if _, err := v.Discover(context.Background(), mentorSess(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	return v
}

func TestSaveTwiceIsAlreadySavedWithoutNetwork(t *testing.T) {
	store := &gapStore{}
	api := &fakeAPI{saveGap: store.save}
	v := discoveredVault(t, api, types.ResearchGap{Title: "a"}, types.ResearchGap{Title: "b"})

	if _, err := v.Save(context.Background(), mentorSess(), 0); err != nil {
		t.Fatalf("first save: %v", err)
	}
	_, err := v.Save(context.Background(), mentorSess(), 0)
	if !errors.Is(err, apierr.ErrAlreadySaved) {
		t.Fatalf("expected already saved error, got %v", err)
	}
	if n := api.count("SaveResearchGap"); n != 1 {
		t.Fatalf("SaveResearchGap calls=%d want 1", n)
	}
	if !v.IsSaved(0) || v.IsSaved(1) {
		t.Fatalf("save-set wrong: 0=%v 1=%v", v.IsSaved(0), v.IsSaved(1))
	}
}

func TestSaveFailureLeavesIndexUnsaved(t *testing.T) {
	fail := true
	api := &fakeAPI{}
	api.saveGap = func(engagementapi.SaveGapRequest) (types.SavedResearchGap, error) {
		if fail {
			return types.SavedResearchGap{}, apierr.FromHTTP(500, "", "")
		}
		return types.SavedResearchGap{ID: uuid.New()}, nil
	}
	v := discoveredVault(t, api, types.ResearchGap{Title: "a"})

	if _, err := v.Save(context.Background(), mentorSess(), 0); !errors.Is(err, apierr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if v.IsSaved(0) || v.Suggestions()[0].Saving {
		t.Fatalf("failed save left index marked")
	}
	fail = false
	if _, err := v.Save(context.Background(), mentorSess(), 0); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !v.IsSaved(0) {
		t.Fatalf("retry did not mark index saved")
	}
}

func TestSaveRejectsBadIndex(t *testing.T) {
	api := &fakeAPI{}
	v := discoveredVault(t, api, types.ResearchGap{Title: "a"})
	for _, idx := range []int{-1, 1} {
		if _, err := v.Save(context.Background(), mentorSess(), idx); !errors.Is(err, apierr.ErrValidation) {
			t.Errorf("index %d: expected validation error, got %v", idx, err)
		}
	}
	if api.count("SaveResearchGap") != 0 {
		t.Fatalf("bad index reached the backend")
	}
}

func TestDiscoverClearsSaveSet(t *testing.T) {
	api := &fakeAPI{}
	v := discoveredVault(t, api, types.ResearchGap{Title: "a"})
	if _, err := v.Save(context.Background(), mentorSess(), 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := v.Discover(context.Background(), mentorSess(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("rediscover: %v", err)
	}
	if v.IsSaved(0) {
		t.Fatalf("save-set survived rediscovery")
	}
	if _, err := v.Save(context.Background(), mentorSess(), 0); err != nil {
		t.Fatalf("save after rediscovery: %v", err)
	}
	if len(v.Saved()) != 2 {
		t.Fatalf("saved=%d want 2", len(v.Saved()))
	}
}

func TestRelatedPapersRoundTrip(t *testing.T) {
	papers := types.PaperList{"Attention Is All You Need", "BERT: Pre-training of Deep Bidirectional Transformers", "Longformer"}
	store := &gapStore{}
	api := &fakeAPI{saveGap: store.save, listSaved: store.list}
	v := discoveredVault(t, api, types.ResearchGap{Title: "long-context QA", RelatedPapers: papers})

	if _, err := v.Save(context.Background(), mentorSess(), 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.rows[0].RelatedPapers == "" {
		t.Fatalf("related papers were not serialized")
	}
	if err := v.ListSaved(context.Background(), mentorSess()); err != nil {
		t.Fatalf("ListSaved: %v", err)
	}
	saved := v.Saved()
	if len(saved) != 1 || !reflect.DeepEqual(saved[0].RelatedPapers, papers) {
		t.Fatalf("round trip=%#v", saved)
	}
}

func TestDeleteSavedRemovesAfterConfirmation(t *testing.T) {
	keep, drop := uuid.New(), uuid.New()
	deleteErr := error(apierr.Network(errors.New("offline")))
	api := &fakeAPI{
		listSaved: func() ([]types.SavedResearchGap, error) {
			return []types.SavedResearchGap{{ID: keep}, {ID: drop}}, nil
		},
		deleteSaved: func(uuid.UUID) error { return deleteErr },
	}
	v := NewResearchGapVault(api, nil)
	if err := v.ListSaved(context.Background(), mentorSess()); err != nil {
		t.Fatalf("ListSaved: %v", err)
	}

	if err := v.DeleteSaved(context.Background(), mentorSess(), drop); !errors.Is(err, apierr.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if len(v.Saved()) != 2 {
		t.Fatalf("unconfirmed delete changed the cache")
	}

	deleteErr = nil
	if err := v.DeleteSaved(context.Background(), mentorSess(), drop); err != nil {
		t.Fatalf("DeleteSaved: %v", err)
	}
	saved := v.Saved()
	if len(saved) != 1 || saved[0].ID != keep {
		t.Fatalf("saved=%v", saved)
	}
}

func TestDeleteSavedConflictReloads(t *testing.T) {
	api := &fakeAPI{deleteSaved: func(uuid.UUID) error { return apierr.FromHTTP(404, apierr.CodeNotFound, "not found") }}
	v := NewResearchGapVault(api, nil)

	err := v.DeleteSaved(context.Background(), mentorSess(), uuid.New())
	if !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if api.count("ListSavedResearchGaps") != 1 {
		t.Fatalf("conflict did not reload saved gaps")
	}
}
