package planning

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/data/repos/testutil"
	types "github.com/yungbote/scholarlink/internal/domain"
)

func TestPlanRepoSaveReplacesItems(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPlanRepo(db, testutil.Logger(t))

	student, opp := uuid.New(), uuid.New()
	first, err := repo.Save(ctx, tx, &types.ImprovementPlan{
		StudentID: student, OpportunityID: opp, OpportunityTitle: "NLP internship",
		Items: []types.PlanItem{
			{Type: types.PlanItemSkillGap, Title: "Learn CUDA", Priority: types.PriorityHigh},
			{Type: types.PlanItemSOP, Title: "Draft SOP", Priority: types.PriorityLow},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(first.Items) != 2 || first.Items[0].Status != types.ItemPending {
		t.Fatalf("items=%+v", first.Items)
	}

	second, err := repo.Save(ctx, tx, &types.ImprovementPlan{
		StudentID: student, OpportunityID: opp, OpportunityTitle: "NLP internship",
		Items: []types.PlanItem{{Type: types.PlanItemMiniProject, Title: "Build a tagger", Priority: types.PriorityMedium}},
	})
	if err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("plan id changed on regenerate")
	}

	plans, err := repo.ListByStudent(ctx, tx, student)
	if err != nil {
		t.Fatalf("ListByStudent: %v", err)
	}
	if len(plans) != 1 || len(plans[0].Items) != 1 || plans[0].Items[0].Title != "Build a tagger" {
		t.Fatalf("plans=%+v", plans)
	}

	itemID := plans[0].Items[0].ID
	if err := repo.UpdateItemStatus(ctx, tx, itemID, types.ItemInProgress); err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	item, plan, err := repo.GetItem(ctx, tx, itemID)
	if err != nil || item == nil || item.Status != types.ItemInProgress || plan.StudentID != student {
		t.Fatalf("GetItem: %+v %+v %v", item, plan, err)
	}
	item, _, err = repo.GetItem(ctx, tx, uuid.New())
	if err != nil || item != nil {
		t.Fatalf("GetItem (missing): %+v %v", item, err)
	}
}
