package engagement

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/scholarlink/internal/clients/engagementapi"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

// GapView is one discovered suggestion and whether it has been persisted.
type GapView struct {
	Index  int
	Gap    types.ResearchGap
	Saving bool
	Saved  bool
}

type VaultView struct {
	MentorID    uuid.UUID
	StudentID   uuid.UUID
	Generation  uint64
	Suggestions []GapView
	Saved       []types.SavedResearchGap
}

// ResearchGapVault holds the ephemeral suggestions of the latest discovery and the
// persisted gaps. Each suggestion can be saved at most once per discovery.
type ResearchGapVault struct {
	api API
	log *logger.Logger

	mu         sync.Mutex
	mentorID   uuid.UUID
	studentID  uuid.UUID
	generation uint64
	gaps       []types.ResearchGap
	saving     map[int]struct{}
	saved      map[int]struct{}
	persisted  []types.SavedResearchGap

	guard *inflight
	obs   observers[VaultView]
}

func NewResearchGapVault(api API, log *logger.Logger) *ResearchGapVault {
	return &ResearchGapVault{
		api:    api,
		log:    logger.OrNop(log).With("component", "ResearchGapVault"),
		saving: map[int]struct{}{},
		saved:  map[int]struct{}{},
		guard:  newInflight(),
	}
}

// Discover replaces the suggestion list and forgets which suggestions were saved.
func (v *ResearchGapVault) Discover(ctx context.Context, sess session.Session, mentorID, studentID uuid.UUID) (gaps []types.ResearchGap, err error) {
	ctx, span := startSpan(ctx, "ResearchGapVault.Discover",
		attribute.String("mentor.id", mentorID.String()),
	)
	defer func() { endSpan(span, err) }()

	if mentorID == uuid.Nil || studentID == uuid.Nil {
		return nil, apierr.Validation("mentor and student are required")
	}
	gaps, err = v.api.DiscoverResearchGaps(ctx, sess, mentorID, studentID)
	if err != nil {
		v.log.Warn("discover research gaps failed", "student_id", studentID, "error", err)
		return nil, apierr.Classify(err)
	}
	span.SetAttributes(attribute.Int("gaps.count", len(gaps)))

	v.mu.Lock()
	v.mentorID = mentorID
	v.studentID = studentID
	v.generation++
	v.gaps = append([]types.ResearchGap(nil), gaps...)
	v.saving = map[int]struct{}{}
	v.saved = map[int]struct{}{}
	view := v.viewLocked()
	v.mu.Unlock()

	v.obs.notify(view)
	return append([]types.ResearchGap(nil), gaps...), nil
}

// Save persists suggestion index of the current discovery. A suggestion that was
// already saved fails with an already-saved error and no request is sent.
func (v *ResearchGapVault) Save(ctx context.Context, sess session.Session, index int) (saved types.SavedResearchGap, err error) {
	ctx, span := startSpan(ctx, "ResearchGapVault.Save", attribute.Int("gap.index", index))
	defer func() { endSpan(span, err) }()

	v.mu.Lock()
	gen := v.generation
	v.mu.Unlock()

	var req engagementapi.SaveGapRequest
	err = mutate(ctx, v.guard, mutation[struct{}]{
		key:    fmt.Sprintf("gap:%d:%d", gen, index),
		entity: "this research gap",
		snapshot: func() (struct{}, error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if v.generation != gen {
				return struct{}{}, apierr.Conflict("research gaps were rediscovered")
			}
			if index < 0 || index >= len(v.gaps) {
				return struct{}{}, apierr.Validationf("no research gap at position %d", index)
			}
			if _, ok := v.saved[index]; ok {
				return struct{}{}, apierr.AlreadySaved("")
			}
			req = engagementapi.NewSaveGapRequest(v.mentorID, v.studentID, v.gaps[index])
			return struct{}{}, nil
		},
		apply: func() {
			v.markSaving(gen, index, true)
		},
		remote: func(ctx context.Context) error {
			var err error
			saved, err = v.api.SaveResearchGap(ctx, sess, req)
			return err
		},
		restore: func(struct{}) {
			v.markSaving(gen, index, false)
		},
	})
	if err != nil {
		if !errors.Is(err, apierr.ErrAlreadySaved) {
			v.log.Warn("save research gap failed", "index", index, "error", err)
		}
		return types.SavedResearchGap{}, err
	}

	v.mu.Lock()
	if v.generation == gen {
		delete(v.saving, index)
		v.saved[index] = struct{}{}
	}
	v.persisted = append(v.persisted, saved)
	view := v.viewLocked()
	v.mu.Unlock()

	v.obs.notify(view)
	return saved, nil
}

func (v *ResearchGapVault) markSaving(gen uint64, index int, on bool) {
	v.mu.Lock()
	if v.generation != gen {
		v.mu.Unlock()
		return
	}
	if on {
		v.saving[index] = struct{}{}
	} else {
		delete(v.saving, index)
	}
	view := v.viewLocked()
	v.mu.Unlock()
	v.obs.notify(view)
}

func (v *ResearchGapVault) ListSaved(ctx context.Context, sess session.Session) (err error) {
	ctx, span := startSpan(ctx, "ResearchGapVault.ListSaved")
	defer func() { endSpan(span, err) }()

	gaps, err := v.api.ListSavedResearchGaps(ctx, sess)
	if err != nil {
		v.log.Warn("list saved research gaps failed", "error", err)
		return apierr.Classify(err)
	}

	v.mu.Lock()
	v.persisted = append([]types.SavedResearchGap(nil), gaps...)
	view := v.viewLocked()
	v.mu.Unlock()

	v.obs.notify(view)
	return nil
}

// DeleteSaved removes a persisted gap. The cache changes only after the backend
// confirms; a conflict reloads the saved list.
func (v *ResearchGapVault) DeleteSaved(ctx context.Context, sess session.Session, id uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "ResearchGapVault.DeleteSaved", attribute.String("gap.id", id.String()))
	defer func() { endSpan(span, err) }()

	key := "saved:" + id.String()
	if !v.guard.acquire(key) {
		return apierr.InFlight("this research gap")
	}
	defer v.guard.release(key)

	if err := v.api.DeleteSavedResearchGap(ctx, sess, id); err != nil {
		err = apierr.Classify(err)
		v.log.Warn("delete saved research gap failed", "gap_id", id, "error", err)
		if errors.Is(err, apierr.ErrConflict) {
			if rerr := v.ListSaved(ctx, sess); rerr != nil {
				v.log.Warn("reload saved research gaps failed", "error", rerr)
			}
		}
		return err
	}

	v.mu.Lock()
	kept := v.persisted[:0:0]
	for _, g := range v.persisted {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	v.persisted = kept
	view := v.viewLocked()
	v.mu.Unlock()

	v.obs.notify(view)
	return nil
}

func (v *ResearchGapVault) View() VaultView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewLocked()
}

func (v *ResearchGapVault) Suggestions() []GapView {
	return v.View().Suggestions
}

func (v *ResearchGapVault) Saved() []types.SavedResearchGap {
	return v.View().Saved
}

// IsSaved reports whether suggestion index of the current discovery was saved.
func (v *ResearchGapVault) IsSaved(index int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.saved[index]
	return ok
}

func (v *ResearchGapVault) Subscribe(fn func(VaultView)) (unsubscribe func()) {
	return v.obs.subscribe(fn)
}

func (v *ResearchGapVault) viewLocked() VaultView {
	out := VaultView{
		MentorID:    v.mentorID,
		StudentID:   v.studentID,
		Generation:  v.generation,
		Suggestions: make([]GapView, len(v.gaps)),
		Saved:       append([]types.SavedResearchGap(nil), v.persisted...),
	}
	for i := range out.Saved {
		out.Saved[i].RelatedPapers = append(types.PaperList(nil), out.Saved[i].RelatedPapers...)
	}
	for i, g := range v.gaps {
		g.RelatedPapers = append(types.PaperList(nil), g.RelatedPapers...)
		_, saving := v.saving[i]
		_, saved := v.saved[i]
		out.Suggestions[i] = GapView{Index: i, Gap: g, Saving: saving, Saved: saved}
	}
	return out
}
