package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/realtime"
)

// EngagementNotifier pushes workflow changes to the affected users' streams.
type EngagementNotifier interface {
	ApplicationSubmitted(ctx context.Context, mentorID uuid.UUID, app *types.Application)
	ApplicationStatusChanged(ctx context.Context, app *types.Application)
	PlanGenerated(ctx context.Context, plan *types.ImprovementPlan)
	PlanItemUpdated(ctx context.Context, studentID uuid.UUID, item *types.PlanItem)
	ResearchGapSaved(ctx context.Context, gap *types.SavedResearchGap)
	ResearchGapDeleted(ctx context.Context, ownerID, gapID uuid.UUID)
}

type engagementNotifier struct {
	emit realtime.Emitter
}

// NewEngagementNotifier with a nil emitter discards every notification.
func NewEngagementNotifier(emit realtime.Emitter) EngagementNotifier {
	return &engagementNotifier{emit: emit}
}

func (n *engagementNotifier) send(ctx context.Context, userID uuid.UUID, event realtime.Event, data map[string]any) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.Message{
		Channel: realtime.UserChannel(userID),
		Event:   event,
		Data:    data,
	})
}

func (n *engagementNotifier) ApplicationSubmitted(ctx context.Context, mentorID uuid.UUID, app *types.Application) {
	if app == nil {
		return
	}
	data := map[string]any{
		"application_id": app.ID,
		"opportunity_id": app.OpportunityID,
		"student_id":     app.StudentID,
		"status":         app.Status,
	}
	n.send(ctx, mentorID, realtime.EventApplicationSubmitted, data)
	n.send(ctx, app.StudentID, realtime.EventApplicationSubmitted, data)
}

func (n *engagementNotifier) ApplicationStatusChanged(ctx context.Context, app *types.Application) {
	if app == nil {
		return
	}
	n.send(ctx, app.StudentID, realtime.EventApplicationStatusChanged, map[string]any{
		"application_id": app.ID,
		"opportunity_id": app.OpportunityID,
		"status":         app.Status,
	})
}

func (n *engagementNotifier) PlanGenerated(ctx context.Context, plan *types.ImprovementPlan) {
	if plan == nil {
		return
	}
	n.send(ctx, plan.StudentID, realtime.EventPlanGenerated, map[string]any{
		"plan_id":        plan.ID,
		"opportunity_id": plan.OpportunityID,
		"items":          len(plan.Items),
	})
}

func (n *engagementNotifier) PlanItemUpdated(ctx context.Context, studentID uuid.UUID, item *types.PlanItem) {
	if item == nil {
		return
	}
	n.send(ctx, studentID, realtime.EventPlanItemUpdated, map[string]any{
		"plan_id": item.PlanID,
		"item_id": item.ID,
		"status":  item.Status,
	})
}

func (n *engagementNotifier) ResearchGapSaved(ctx context.Context, gap *types.SavedResearchGap) {
	if gap == nil {
		return
	}
	n.send(ctx, gap.OwnerID, realtime.EventResearchGapSaved, map[string]any{
		"id":    gap.ID,
		"title": gap.Title,
	})
}

func (n *engagementNotifier) ResearchGapDeleted(ctx context.Context, ownerID, gapID uuid.UUID) {
	n.send(ctx, ownerID, realtime.EventResearchGapDeleted, map[string]any{"id": gapID})
}
