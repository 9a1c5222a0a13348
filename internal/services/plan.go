package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/repos"
	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

// defaultPlanWindow is used when the opportunity has no deadline.
const defaultPlanWindow = 30 * 24 * time.Hour

type PlanService interface {
	// Generate builds (or rebuilds) the caller's plan for one opportunity from the
	// skills the caller is missing.
	Generate(ctx context.Context, opportunityID uuid.UUID) (*types.ImprovementPlan, error)
	ListMine(ctx context.Context) ([]*types.ImprovementPlan, error)
	UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status types.PlanItemStatus) (*types.PlanItem, error)
}

type planService struct {
	db          *gorm.DB
	log         *logger.Logger
	now         func() time.Time
	notify      EngagementNotifier
	opportunity repos.OpportunityRepo
	profiles    repos.StudentProfileRepo
	matches     repos.MatchResultRepo
	plans       repos.PlanRepo
}

func NewPlanService(db *gorm.DB, log *logger.Logger, r repos.Set, notify EngagementNotifier, now func() time.Time) PlanService {
	if now == nil {
		now = time.Now
	}
	if notify == nil {
		notify = NewEngagementNotifier(nil)
	}
	return &planService{
		db:          db,
		log:         logger.OrNop(log).With("service", "PlanService"),
		now:         now,
		notify:      notify,
		opportunity: r.Opportunity,
		profiles:    r.StudentProfile,
		matches:     r.MatchResult,
		plans:       r.Plan,
	}
}

func (s *planService) Generate(ctx context.Context, opportunityID uuid.UUID) (*types.ImprovementPlan, error) {
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

	missing, err := s.missingSkills(ctx, rd.UserID, opp)
	if err != nil {
		return nil, err
	}
	plan := &types.ImprovementPlan{
		StudentID:        rd.UserID,
		OpportunityID:    opp.ID,
		OpportunityTitle: opp.Title,
		Items:            buildPlanItems(opp, missing, s.now()),
	}
	saved, err := s.plans.Save(ctx, nil, plan)
	if err != nil {
		return nil, mapDBError("save plan", err)
	}
	s.log.Info("Improvement plan generated", "student_id", rd.UserID, "opportunity_id", opp.ID, "items", len(saved.Items))
	s.notify.PlanGenerated(ctx, saved)
	return saved, nil
}

// missingSkills prefers the stored match and falls back to scoring the profile.
func (s *planService) missingSkills(ctx context.Context, studentID uuid.UUID, opp *types.Opportunity) ([]string, error) {
	match, err := s.matches.GetByStudentOpportunity(ctx, nil, studentID, opp.ID)
	if err != nil {
		return nil, mapDBError("load match", err)
	}
	if match != nil {
		return match.MissingSkills, nil
	}
	profile, err := s.profiles.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, mapDBError("load profile", err)
	}
	return scoreFit(profile, opp).MissingSkills, nil
}

// buildPlanItems emits one skill_gap item per missing skill, then a mini project and a
// statement of purpose. Deadlines are spread evenly up to the opportunity deadline.
func buildPlanItems(opp *types.Opportunity, missing []string, now time.Time) []types.PlanItem {
	items := make([]types.PlanItem, 0, len(missing)+2)
	for i, skill := range missing {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		prio := types.PriorityMedium
		if i < 2 {
			prio = types.PriorityHigh
		}
		items = append(items, types.PlanItem{
			Type:            types.PlanItemSkillGap,
			Title:           "Learn " + skill,
			Description:     fmt.Sprintf("Build working knowledge of %s as required by %q.", skill, opp.Title),
			Priority:        prio,
			EstimatedEffort: "1-2 weeks",
		})
	}
	items = append(items,
		types.PlanItem{
			Type:            types.PlanItemMiniProject,
			Title:           "Mini project for " + opp.Title,
			Description:     "Ship a small project that demonstrates the skills above in this opportunity's area.",
			Priority:        types.PriorityMedium,
			EstimatedEffort: "2 weeks",
		},
		types.PlanItem{
			Type:            types.PlanItemSOP,
			Title:           "Draft statement of purpose",
			Description:     "Explain your motivation and how the completed work prepares you for this opportunity.",
			Priority:        types.PriorityLow,
			EstimatedEffort: "3 days",
		},
	)

	end := now.Add(defaultPlanWindow)
	if opp.Deadline != nil && opp.Deadline.After(now) {
		end = *opp.Deadline
	}
	step := end.Sub(now) / time.Duration(len(items))
	for i := range items {
		d := now.Add(step * time.Duration(i+1)).UTC()
		items[i].Deadline = &d
		items[i].Status = types.ItemPending
	}
	return items
}

func (s *planService) ListMine(ctx context.Context) ([]*types.ImprovementPlan, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.ListByStudent(ctx, nil, rd.UserID)
	if err != nil {
		return nil, mapDBError("list plans", err)
	}
	return plans, nil
}

func (s *planService) UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status types.PlanItemStatus) (*types.PlanItem, error) {
	rd, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	status = types.PlanItemStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, errValidation("unknown plan item status")
	}

	var (
		out     *types.PlanItem
		changed bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, plan, err := s.plans.GetItem(ctx, tx, itemID)
		if err != nil {
			return mapDBError("load plan item", err)
		}
		if item == nil || plan.StudentID != rd.UserID {
			return errNotFound("plan item")
		}
		if item.Status == status {
			out = item
			return nil
		}
		if !item.Status.Forward(status) {
			return errInvalidTransition("cannot move plan item from " + string(item.Status) + " to " + string(status))
		}
		if err := s.plans.UpdateItemStatus(ctx, tx, item.ID, status); err != nil {
			return mapDBError("update plan item", err)
		}
		item.Status = status
		out = item
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify.PlanItemUpdated(ctx, rd.UserID, out)
	}
	return out, nil
}
