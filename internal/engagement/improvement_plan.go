package engagement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/session"
)

// PlanPolicy controls which item transitions the tracker accepts locally.
type PlanPolicy struct {
	// AllowSkipToCompleted lets a pending item be completed without passing
	// through in_progress.
	AllowSkipToCompleted bool
}

// Allows reports whether an item may move from cur to next. Completed is terminal.
func (p PlanPolicy) Allows(cur, next types.PlanItemStatus) bool {
	switch {
	case cur == types.ItemPending && next == types.ItemInProgress:
		return true
	case cur == types.ItemInProgress && next == types.ItemCompleted:
		return true
	case cur == types.ItemPending && next == types.ItemCompleted:
		return p.AllowSkipToCompleted
	default:
		return false
	}
}

// PlanView is a plan together with its derived figures.
type PlanView struct {
	Plan          types.ImprovementPlan
	Progress      int
	Deadline      time.Time
	DaysRemaining int
}

type PlansView struct {
	Plans    []PlanView
	Selected *PlanView
}

// ImprovementPlanTracker caches the student's improvement plans and the selected one.
type ImprovementPlanTracker struct {
	api    API
	log    *logger.Logger
	policy PlanPolicy
	now    func() time.Time

	mu       sync.Mutex
	plans    []types.ImprovementPlan
	selected uuid.UUID
	loaded   bool

	guard   *inflight
	reloads singleflight.Group
	obs     observers[PlansView]
}

func NewImprovementPlanTracker(api API, policy PlanPolicy, now func() time.Time, log *logger.Logger) *ImprovementPlanTracker {
	if now == nil {
		now = time.Now
	}
	return &ImprovementPlanTracker{
		api:    api,
		log:    logger.OrNop(log).With("component", "ImprovementPlanTracker"),
		policy: policy,
		now:    now,
		guard:  newInflight(),
	}
}

// Load replaces the cached plans. An empty list is a valid result. The selection
// survives when the selected plan is still present, otherwise the first plan is selected.
func (t *ImprovementPlanTracker) Load(ctx context.Context, sess session.Session) (err error) {
	ctx, span := startSpan(ctx, "ImprovementPlanTracker.Load")
	defer func() { endSpan(span, err) }()

	plans, err := t.api.ListMyImprovementPlans(ctx, sess)
	if err != nil {
		t.log.Warn("load improvement plans failed", "error", err)
		return apierr.Classify(err)
	}
	span.SetAttributes(attribute.Int("plans.count", len(plans)))

	t.mu.Lock()
	t.plans = clonePlans(plans)
	t.loaded = true
	if t.indexLocked(t.selected) < 0 {
		t.selected = uuid.Nil
		if len(t.plans) > 0 {
			t.selected = t.plans[0].ID
		}
	}
	view := t.viewLocked()
	t.mu.Unlock()

	t.obs.notify(view)
	return nil
}

// Generate asks the backend for a plan for opportunityID and selects it.
func (t *ImprovementPlanTracker) Generate(ctx context.Context, sess session.Session, opportunityID uuid.UUID) (plan types.ImprovementPlan, err error) {
	ctx, span := startSpan(ctx, "ImprovementPlanTracker.Generate", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	if opportunityID == uuid.Nil {
		return types.ImprovementPlan{}, apierr.Validation("opportunity is required")
	}
	key := "generate:" + opportunityID.String()
	if !t.guard.acquire(key) {
		return types.ImprovementPlan{}, apierr.InFlight("this improvement plan")
	}
	defer t.guard.release(key)

	plan, err = t.api.GenerateImprovementPlan(ctx, sess, opportunityID)
	if err != nil {
		t.log.Warn("generate improvement plan failed", "opportunity_id", opportunityID, "error", err)
		return types.ImprovementPlan{}, apierr.Classify(err)
	}
	plan = clonePlan(plan)

	t.mu.Lock()
	if i := t.indexLocked(plan.ID); i >= 0 {
		t.plans[i] = plan
	} else {
		t.plans = append(t.plans, plan)
	}
	t.selected = plan.ID
	t.loaded = true
	view := t.viewLocked()
	t.mu.Unlock()

	t.obs.notify(view)
	return clonePlan(plan), nil
}

func (t *ImprovementPlanTracker) SelectPlan(planID uuid.UUID) error {
	t.mu.Lock()
	if t.indexLocked(planID) < 0 {
		t.mu.Unlock()
		return apierr.Validation("improvement plan is not loaded")
	}
	t.selected = planID
	view := t.viewLocked()
	t.mu.Unlock()

	t.obs.notify(view)
	return nil
}

// UpdateItemStatus moves an item optimistically. Any failure restores the item and
// reloads every plan from the backend.
func (t *ImprovementPlanTracker) UpdateItemStatus(ctx context.Context, sess session.Session, itemID uuid.UUID, status types.PlanItemStatus) (err error) {
	ctx, span := startSpan(ctx, "ImprovementPlanTracker.UpdateItemStatus",
		attribute.String("item.id", itemID.String()),
		attribute.String("item.status", string(status)),
	)
	defer func() { endSpan(span, err) }()

	if !status.Valid() {
		return apierr.Validationf("unknown item status %q", status)
	}
	if _, ok := t.itemStatus(itemID); !ok {
		return apierr.Validation("plan item is not loaded")
	}

	var (
		confirmed types.PlanItem
		sent      bool
	)
	err = mutate(ctx, t.guard, mutation[types.PlanItemStatus]{
		key:    "item:" + itemID.String(),
		entity: "this task",
		snapshot: func() (types.PlanItemStatus, error) {
			prev, ok := t.itemStatus(itemID)
			if !ok {
				return "", apierr.Validation("plan item is not loaded")
			}
			if prev == status {
				return prev, nil
			}
			if !t.policy.Allows(prev, status) {
				return "", apierr.Validationf("cannot move task from %s to %s", prev, status)
			}
			return prev, nil
		},
		unchanged: func(prev types.PlanItemStatus) bool {
			return prev == status
		},
		apply: func() {
			t.setItemStatus(itemID, status, "")
		},
		remote: func(ctx context.Context) error {
			sent = true
			var err error
			confirmed, err = t.api.UpdatePlanItemStatus(ctx, sess, itemID, status)
			return err
		},
		restore: func(prev types.PlanItemStatus) {
			t.setItemStatus(itemID, prev, status)
		},
	})
	if err != nil {
		if !sent {
			return err
		}
		t.log.Warn("update plan item failed", "item_id", itemID, "status", status, "error", err)
		t.reload(ctx, sess)
		return err
	}

	if confirmed.ID == itemID && confirmed.Status.Valid() {
		t.setItemStatus(itemID, confirmed.Status, "")
	}
	return nil
}

// reload refreshes every plan after a failed change. Concurrent reloads share one
// request.
func (t *ImprovementPlanTracker) reload(ctx context.Context, sess session.Session) {
	_, err, _ := t.reloads.Do("plans", func() (any, error) {
		return nil, t.Load(ctx, sess)
	})
	if err != nil {
		t.log.Warn("reload improvement plans failed", "error", err)
	}
}

func (t *ImprovementPlanTracker) itemStatus(itemID uuid.UUID) (types.PlanItemStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pi, ii := t.itemIndexLocked(itemID)
	if pi < 0 {
		return "", false
	}
	return t.plans[pi].Items[ii].Status, true
}

// setItemStatus writes status to the cached item. A non-empty only makes the write
// conditional on the item still holding that status.
func (t *ImprovementPlanTracker) setItemStatus(itemID uuid.UUID, status, only types.PlanItemStatus) {
	t.mu.Lock()
	pi, ii := t.itemIndexLocked(itemID)
	if pi < 0 || (only != "" && t.plans[pi].Items[ii].Status != only) {
		t.mu.Unlock()
		return
	}
	t.plans[pi].Items[ii].Status = status
	view := t.viewLocked()
	t.mu.Unlock()
	t.obs.notify(view)
}

func (t *ImprovementPlanTracker) HasPlans() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.plans) > 0
}

func (t *ImprovementPlanTracker) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

func (t *ImprovementPlanTracker) Plans() []PlanView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked().Plans
}

func (t *ImprovementPlanTracker) Selected() (PlanView, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.viewLocked()
	if v.Selected == nil {
		return PlanView{}, false
	}
	return *v.Selected, true
}

func (t *ImprovementPlanTracker) Subscribe(fn func(PlansView)) (unsubscribe func()) {
	return t.obs.subscribe(fn)
}

func (t *ImprovementPlanTracker) indexLocked(planID uuid.UUID) int {
	if planID == uuid.Nil {
		return -1
	}
	for i := range t.plans {
		if t.plans[i].ID == planID {
			return i
		}
	}
	return -1
}

func (t *ImprovementPlanTracker) itemIndexLocked(itemID uuid.UUID) (int, int) {
	for pi := range t.plans {
		for ii := range t.plans[pi].Items {
			if t.plans[pi].Items[ii].ID == itemID {
				return pi, ii
			}
		}
	}
	return -1, -1
}

func (t *ImprovementPlanTracker) viewLocked() PlansView {
	now := t.now()
	out := PlansView{Plans: make([]PlanView, 0, len(t.plans))}
	for _, p := range t.plans {
		plan := clonePlan(p)
		deadline := AggregateDeadline(plan.Items, now)
		out.Plans = append(out.Plans, PlanView{
			Plan:          plan,
			Progress:      Progress(plan.Items),
			Deadline:      deadline,
			DaysRemaining: DaysRemaining(deadline, now),
		})
	}
	for i := range out.Plans {
		if out.Plans[i].Plan.ID == t.selected {
			sel := out.Plans[i]
			out.Selected = &sel
			break
		}
	}
	return out
}

func clonePlan(p types.ImprovementPlan) types.ImprovementPlan {
	if p.Items != nil {
		p.Items = append([]types.PlanItem(nil), p.Items...)
	}
	return p
}

func clonePlans(plans []types.ImprovementPlan) []types.ImprovementPlan {
	out := make([]types.ImprovementPlan, 0, len(plans))
	for _, p := range plans {
		out = append(out, clonePlan(p))
	}
	return out
}
