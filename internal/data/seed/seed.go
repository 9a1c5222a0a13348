package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/scholarlink/internal/data/repos"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

// Fixture is a YAML document of backend rows used for demos and end-to-end runs.
type Fixture struct {
	Opportunities  []Opportunity   `yaml:"opportunities"`
	Profiles       []Profile       `yaml:"profiles"`
	GapSuggestions []GapSuggestion `yaml:"gap_suggestions"`
}

type Opportunity struct {
	ID             string   `yaml:"id"`
	MentorID       string   `yaml:"mentor_id"`
	Type           string   `yaml:"type"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Deadline       string   `yaml:"deadline"`
	Slots          int      `yaml:"slots"`
	Closed         bool     `yaml:"closed"`
	RequiredSkills []string `yaml:"required_skills"`
	ResearchAreas  []string `yaml:"research_areas"`
}

type Profile struct {
	StudentID string   `yaml:"student_id"`
	Name      string   `yaml:"name"`
	Skills    []string `yaml:"skills"`
	Interests []string `yaml:"interests"`
}

type GapSuggestion struct {
	MentorID         string   `yaml:"mentor_id"`
	StudentID        string   `yaml:"student_id"`
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description"`
	Type             string   `yaml:"type"`
	WhyGap           string   `yaml:"why_gap"`
	ReasonStudent    string   `yaml:"reason_student"`
	ReasonMentor     string   `yaml:"reason_mentor"`
	FeasibilityScore float64  `yaml:"feasibility_score"`
	ConfidenceScore  float64  `yaml:"confidence_score"`
	RelatedPapers    []string `yaml:"related_papers"`
}

type Result struct {
	Opportunities  int
	Profiles       int
	GapSuggestions int
}

func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply writes the fixture. Rows that already exist are left alone so a fixture can be
// applied on every start.
func Apply(ctx context.Context, log *logger.Logger, r repos.Set, f *Fixture) (Result, error) {
	log = logger.OrNop(log).With("component", "Seed")
	var res Result
	if f == nil {
		return res, nil
	}

	for i, o := range f.Opportunities {
		opp, err := o.toDomain()
		if err != nil {
			return res, fmt.Errorf("opportunities[%d]: %w", i, err)
		}
		existing, err := r.Opportunity.GetByID(ctx, nil, opp.ID)
		if err != nil {
			return res, err
		}
		if existing != nil {
			continue
		}
		if _, err := r.Opportunity.Create(ctx, nil, []*types.Opportunity{opp}); err != nil {
			return res, fmt.Errorf("opportunities[%d]: %w", i, err)
		}
		res.Opportunities++
	}

	for i, p := range f.Profiles {
		id, err := uuid.Parse(strings.TrimSpace(p.StudentID))
		if err != nil {
			return res, fmt.Errorf("profiles[%d]: student_id: %w", i, err)
		}
		if err := r.StudentProfile.Upsert(ctx, nil, &types.StudentProfile{
			StudentID: id,
			Name:      p.Name,
			Skills:    p.Skills,
			Interests: p.Interests,
		}); err != nil {
			return res, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		res.Profiles++
	}

	byPair := map[[2]uuid.UUID][]*types.GapSuggestion{}
	var order [][2]uuid.UUID
	for i, g := range f.GapSuggestions {
		mentorID, err := uuid.Parse(strings.TrimSpace(g.MentorID))
		if err != nil {
			return res, fmt.Errorf("gap_suggestions[%d]: mentor_id: %w", i, err)
		}
		studentID, err := uuid.Parse(strings.TrimSpace(g.StudentID))
		if err != nil {
			return res, fmt.Errorf("gap_suggestions[%d]: student_id: %w", i, err)
		}
		key := [2]uuid.UUID{mentorID, studentID}
		if _, ok := byPair[key]; !ok {
			order = append(order, key)
		}
		byPair[key] = append(byPair[key], &types.GapSuggestion{
			MentorID:  mentorID,
			StudentID: studentID,
			Position:  len(byPair[key]),
			ResearchGap: types.ResearchGap{
				Title:            g.Title,
				Description:      g.Description,
				Type:             g.Type,
				WhyGap:           g.WhyGap,
				ReasonStudent:    g.ReasonStudent,
				ReasonMentor:     g.ReasonMentor,
				FeasibilityScore: g.FeasibilityScore,
				ConfidenceScore:  g.ConfidenceScore,
				RelatedPapers:    types.PaperList(g.RelatedPapers),
			},
		})
	}
	for _, key := range order {
		existing, err := r.GapSuggestion.ListForPair(ctx, nil, key[0], key[1])
		if err != nil {
			return res, err
		}
		if len(existing) > 0 {
			continue
		}
		rows, err := r.GapSuggestion.Create(ctx, nil, byPair[key])
		if err != nil {
			return res, err
		}
		res.GapSuggestions += len(rows)
	}

	log.Info("Seed applied", "opportunities", res.Opportunities, "profiles", res.Profiles, "gap_suggestions", res.GapSuggestions)
	return res, nil
}

func (o Opportunity) toDomain() (*types.Opportunity, error) {
	id, err := uuid.Parse(strings.TrimSpace(o.ID))
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	mentorID, err := uuid.Parse(strings.TrimSpace(o.MentorID))
	if err != nil {
		return nil, fmt.Errorf("mentor_id: %w", err)
	}
	typ := types.OpportunityType(strings.TrimSpace(o.Type))
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown type %q", o.Type)
	}
	if strings.TrimSpace(o.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	var deadline *time.Time
	if s := strings.TrimSpace(o.Deadline); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return nil, fmt.Errorf("deadline: %w", err)
		}
		deadline = &t
	}
	slots := o.Slots
	if slots <= 0 {
		slots = 1
	}
	return &types.Opportunity{
		ID:             id,
		MentorID:       mentorID,
		Type:           typ,
		Title:          strings.TrimSpace(o.Title),
		Description:    o.Description,
		Deadline:       deadline,
		Slots:          slots,
		IsOpen:         !o.Closed,
		RequiredSkills: o.RequiredSkills,
		ResearchAreas:  o.ResearchAreas,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
