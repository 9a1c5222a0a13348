package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/repos"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

const maxDerivedGaps = 5

type SaveGapInput struct {
	MentorID  uuid.UUID
	StudentID uuid.UUID
	Gap       types.ResearchGap
}

type ResearchService interface {
	Discover(ctx context.Context, mentorID, studentID uuid.UUID) ([]types.ResearchGap, error)
	Save(ctx context.Context, in SaveGapInput) (*types.SavedResearchGap, error)
	ListSaved(ctx context.Context) ([]*types.SavedResearchGap, error)
	DeleteSaved(ctx context.Context, id uuid.UUID) error
}

type researchService struct {
	db          *gorm.DB
	log         *logger.Logger
	notify      EngagementNotifier
	suggestions repos.GapSuggestionRepo
	saved       repos.SavedGapRepo
	opportunity repos.OpportunityRepo
	profiles    repos.StudentProfileRepo
}

func NewResearchService(db *gorm.DB, log *logger.Logger, r repos.Set, notify EngagementNotifier) ResearchService {
	if notify == nil {
		notify = NewEngagementNotifier(nil)
	}
	return &researchService{
		db:          db,
		log:         logger.OrNop(log).With("service", "ResearchService"),
		notify:      notify,
		suggestions: r.GapSuggestion,
		saved:       r.SavedGap,
		opportunity: r.Opportunity,
		profiles:    r.StudentProfile,
	}
}

func (s *researchService) Discover(ctx context.Context, mentorID, studentID uuid.UUID) ([]types.ResearchGap, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if mentorID == uuid.Nil || studentID == uuid.Nil {
		return nil, errValidation("mentor and student ids are required")
	}
	if rd.UserID != mentorID && rd.UserID != studentID && rd.Role != "admin" {
		return nil, errForbidden("research gaps are visible to the mentor and student only")
	}

	rows, err := s.suggestions.ListForPair(ctx, nil, mentorID, studentID)
	if err != nil {
		return nil, mapDBError("list research gaps", err)
	}
	if len(rows) > 0 {
		out := make([]types.ResearchGap, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ResearchGap)
		}
		return out, nil
	}
	return s.deriveGaps(ctx, mentorID, studentID)
}

// deriveGaps proposes one gap per research area the mentor works in, scored against
// the student's interests.
func (s *researchService) deriveGaps(ctx context.Context, mentorID, studentID uuid.UUID) ([]types.ResearchGap, error) {
	opps, err := s.opportunity.ListByMentor(ctx, nil, mentorID)
	if err != nil {
		return nil, mapDBError("list mentor opportunities", err)
	}
	profile, err := s.profiles.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, mapDBError("load profile", err)
	}
	var interests map[string]struct{}
	if profile != nil {
		interests = termSet(profile.Interests)
	}

	gaps := []types.ResearchGap{}
	seen := map[string]struct{}{}
	for _, opp := range opps {
		for _, area := range opp.ResearchAreas {
			key := normalizeTerm(area)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			area = strings.TrimSpace(area)

			_, shared := interests[key]
			feasibility, reason := 0.55, "Would stretch the student into a new area."
			if shared {
				feasibility, reason = 0.8, "Matches the student's stated interest in "+area+"."
			}
			gaps = append(gaps, types.ResearchGap{
				Title:            "Open problems in " + area,
				Description:      fmt.Sprintf("Survey and scope an unexplored question in %s connected to %q.", area, opp.Title),
				Type:             "exploratory",
				WhyGap:           "Few results combine " + area + " with the mentor's current projects.",
				ReasonStudent:    reason,
				ReasonMentor:     "Extends the mentor's work on " + opp.Title + ".",
				FeasibilityScore: feasibility,
				ConfidenceScore:  0.5,
				RelatedPapers:    types.PaperList{},
			})
			if len(gaps) == maxDerivedGaps {
				return gaps, nil
			}
		}
	}
	return gaps, nil
}

func (s *researchService) Save(ctx context.Context, in SaveGapInput) (*types.SavedResearchGap, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	in.Gap.Title = strings.TrimSpace(in.Gap.Title)
	if in.Gap.Title == "" {
		return nil, errValidation("title is required")
	}
	if in.Gap.RelatedPapers == nil {
		in.Gap.RelatedPapers = types.PaperList{}
	}
	row := &types.SavedResearchGap{
		OwnerID:     rd.UserID,
		MentorID:    in.MentorID,
		StudentID:   in.StudentID,
		ResearchGap: in.Gap,
	}
	created, err := s.saved.Create(ctx, nil, row)
	if err != nil {
		return nil, mapDBError("save research gap", err)
	}
	s.notify.ResearchGapSaved(ctx, created)
	return created, nil
}

func (s *researchService) ListSaved(ctx context.Context) ([]*types.SavedResearchGap, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.saved.ListByOwner(ctx, nil, rd.UserID)
	if err != nil {
		return nil, mapDBError("list saved research gaps", err)
	}
	return rows, nil
}

func (s *researchService) DeleteSaved(ctx context.Context, id uuid.UUID) error {
	rd, err := caller(ctx)
	if err != nil {
		return err
	}
	n, err := s.saved.Delete(ctx, nil, rd.UserID, id)
	if err != nil {
		return mapDBError("delete research gap", err)
	}
	if n == 0 {
		return errNotFound("saved research gap")
	}
	s.notify.ResearchGapDeleted(ctx, rd.UserID, id)
	return nil
}
