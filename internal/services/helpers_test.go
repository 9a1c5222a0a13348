package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/repos"
	"github.com/yungbote/scholarlink/internal/data/repos/testutil"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
)

type fixture struct {
	db     *gorm.DB
	repos  repos.Set
	mentor uuid.UUID
	opp    *types.Opportunity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	set := repos.NewSet(db, testutil.Logger(t))
	mentor := uuid.New()
	deadline := time.Now().Add(60 * 24 * time.Hour).UTC()
	opps, err := set.Opportunity.Create(context.Background(), nil, []*types.Opportunity{{
		MentorID:       mentor,
		Type:           types.OpportunityResearchAssistant,
		Title:          "Graph learning RA",
		Deadline:       &deadline,
		Slots:          2,
		IsOpen:         true,
		RequiredSkills: []string{"Python", "PyTorch", "Graph Theory"},
		ResearchAreas:  []string{"Graph Neural Networks", "Drug Discovery"},
	}})
	require.NoError(t, err)
	return &fixture{db: db, repos: set, mentor: mentor, opp: opps[0]}
}

func asUser(id uuid.UUID, role string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id, Role: role})
}

func (f *fixture) student(t *testing.T, skills, interests []string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.repos.StudentProfile.Upsert(context.Background(), nil, &types.StudentProfile{
		StudentID: id,
		Name:      "Ada",
		Skills:    skills,
		Interests: interests,
	}))
	return id
}
