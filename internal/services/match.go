package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/repos"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type MatchService interface {
	// List returns the caller's ranked matches, scoring every open opportunity the
	// first time they are requested.
	List(ctx context.Context) ([]*types.MatchResult, error)
	Analyze(ctx context.Context, opportunityID uuid.UUID) (*types.MatchPreview, error)
}

type matchService struct {
	db          *gorm.DB
	log         *logger.Logger
	opportunity repos.OpportunityRepo
	profiles    repos.StudentProfileRepo
	matches     repos.MatchResultRepo
}

func NewMatchService(db *gorm.DB, log *logger.Logger, r repos.Set) MatchService {
	return &matchService{
		db:          db,
		log:         logger.OrNop(log).With("service", "MatchService"),
		opportunity: r.Opportunity,
		profiles:    r.StudentProfile,
		matches:     r.MatchResult,
	}
}

func (s *matchService) List(ctx context.Context) ([]*types.MatchResult, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := s.matches.ListByStudent(ctx, nil, rd.UserID)
	if err != nil {
		return nil, mapDBError("list matches", err)
	}
	if len(stored) > 0 {
		return stored, nil
	}

	profile, err := s.profiles.GetByStudentID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, mapDBError("load profile", err)
	}
	opps, err := s.opportunity.ListOpen(ctx, nil)
	if err != nil {
		return nil, mapDBError("list opportunities", err)
	}
	if len(opps) == 0 {
		return []*types.MatchResult{}, nil
	}

	results := make([]*types.MatchResult, 0, len(opps))
	for _, opp := range opps {
		fit := scoreFit(profile, opp)
		results = append(results, &types.MatchResult{
			StudentID:      rd.UserID,
			OpportunityID:  opp.ID,
			MentorID:       opp.MentorID,
			Title:          opp.Title,
			MatchScore:     fit.Match,
			SemanticScore:  fit.Semantic,
			AlignmentScore: fit.Alignment,
			Explanation:    fit.Explanation,
			MissingSkills:  fit.MissingSkills,
			ResearchTrends: fit.ResearchTrends,
		})
	}
	rankMatches(results)

	saved, err := s.matches.ReplaceForStudent(ctx, nil, rd.UserID, results)
	if err != nil {
		return nil, mapDBError("store matches", err)
	}
	s.log.Info("Scored matches", "student_id", rd.UserID, "count", len(saved))
	return saved, nil
}

func (s *matchService) Analyze(ctx context.Context, opportunityID uuid.UUID) (*types.MatchPreview, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if opportunityID == uuid.Nil {
		return nil, errValidation("opportunity id is required")
	}
	opp, err := s.opportunity.GetByID(ctx, nil, opportunityID)
	if err != nil {
		return nil, mapDBError("load opportunity", err)
	}
	if opp == nil {
		return nil, errNotFound("opportunity")
	}
	profile, err := s.profiles.GetByStudentID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, mapDBError("load profile", err)
	}
	fit := scoreFit(profile, opp)
	return &types.MatchPreview{
		OpportunityID: opp.ID,
		Score:         fit.Match,
		Explanation:   fit.Explanation,
		MissingSkills: fit.MissingSkills,
	}, nil
}
