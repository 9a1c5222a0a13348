package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	types "github.com/yungbote/scholarlink/internal/domain"
)

// Weights for the blended match score.
const (
	alignmentWeight = 0.6
	semanticWeight  = 0.4

	noRequirementsAlignment = 60
	noAreasSemantic         = 50
)

type fitScore struct {
	Match          float64
	Semantic       float64
	Alignment      float64
	MissingSkills  []string
	ResearchTrends []string
	Explanation    string
}

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func termSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if k := normalizeTerm(v); k != "" {
			out[k] = struct{}{}
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// scoreFit compares a student profile against one opportunity. Alignment is the share
// of required skills the student has; semantic is the share of the opportunity's
// research areas among the student's interests.
func scoreFit(profile *types.StudentProfile, opp *types.Opportunity) fitScore {
	var skills, interests map[string]struct{}
	if profile != nil {
		skills = termSet(profile.Skills)
		interests = termSet(profile.Interests)
	}

	var covered []string
	out := fitScore{}
	required := 0
	seen := map[string]struct{}{}
	for _, s := range opp.RequiredSkills {
		k := normalizeTerm(s)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		required++
		if _, ok := skills[k]; ok {
			covered = append(covered, strings.TrimSpace(s))
		} else {
			out.MissingSkills = append(out.MissingSkills, strings.TrimSpace(s))
		}
	}
	if required == 0 {
		out.Alignment = noRequirementsAlignment
	} else {
		out.Alignment = round1(100 * float64(len(covered)) / float64(required))
	}

	var shared []string
	areas := 0
	seen = map[string]struct{}{}
	for _, a := range opp.ResearchAreas {
		k := normalizeTerm(a)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		areas++
		if _, ok := interests[k]; ok {
			shared = append(shared, strings.TrimSpace(a))
		} else {
			out.ResearchTrends = append(out.ResearchTrends, strings.TrimSpace(a))
		}
	}
	if areas == 0 {
		out.Semantic = noAreasSemantic
	} else {
		out.Semantic = round1(100 * float64(len(shared)) / float64(areas))
	}

	out.Match = round1(alignmentWeight*out.Alignment + semanticWeight*out.Semantic)
	out.Explanation = explainFit(len(covered), required, shared, out.MissingSkills)
	return out
}

func explainFit(covered, required int, shared, missing []string) string {
	var parts []string
	if required > 0 {
		parts = append(parts, fmt.Sprintf("Covers %d of %d required skills", covered, required))
	} else {
		parts = append(parts, "No specific skills required")
	}
	if len(shared) > 0 {
		parts = append(parts, "shares interest in "+strings.Join(shared, ", "))
	}
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	return strings.Join(parts, "; ") + "."
}

// rankMatches orders results by score, best first, and assigns 1-based ranks.
func rankMatches(results []*types.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].Title < results[j].Title
	})
	for i, r := range results {
		r.Rank = i + 1
	}
}
