package planning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type PlanRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*types.ImprovementPlan, error)
	GetByStudentOpportunity(ctx context.Context, tx *gorm.DB, studentID, opportunityID uuid.UUID) (*types.ImprovementPlan, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ImprovementPlan, error)
	// Save creates the plan or, when one exists for the same student and
	// opportunity, replaces its items while keeping its id.
	Save(ctx context.Context, tx *gorm.DB, plan *types.ImprovementPlan) (*types.ImprovementPlan, error)
	GetItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.PlanItem, *types.ImprovementPlan, error)
	UpdateItemStatus(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, status types.PlanItemStatus) error
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	repoLog := logger.OrNop(baseLog).With("repo", "PlanRepo")
	return &planRepo{db: db, log: repoLog}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *planRepo) GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*types.ImprovementPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.ImprovementPlan
	err := transaction.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ?", planID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *planRepo) GetByStudentOpportunity(ctx context.Context, tx *gorm.DB, studentID, opportunityID uuid.UUID) (*types.ImprovementPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.ImprovementPlan
	err := transaction.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("student_id = ? AND opportunity_id = ?", studentID, opportunityID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *planRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ImprovementPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ImprovementPlan
	if err := transaction.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) Save(ctx context.Context, tx *gorm.DB, plan *types.ImprovementPlan) (*types.ImprovementPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	items := plan.Items
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var existing types.ImprovementPlan
		err := inner.Where("student_id = ? AND opportunity_id = ?", plan.StudentID, plan.OpportunityID).First(&existing).Error
		switch {
		case err == nil:
			plan.ID = existing.ID
			plan.CreatedAt = existing.CreatedAt
			if err := inner.Where("plan_id = ?", existing.ID).Delete(&types.PlanItem{}).Error; err != nil {
				return err
			}
			if err := inner.Model(&existing).Update("opportunity_title", plan.OpportunityTitle).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			plan.Items = nil
			if err := inner.Create(plan).Error; err != nil {
				return err
			}
		default:
			return err
		}
		for i := range items {
			items[i].ID = uuid.Nil
			items[i].PlanID = plan.ID
			items[i].Position = i
		}
		if len(items) > 0 {
			if err := inner.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	plan.Items = items
	return plan, nil
}

func (r *planRepo) GetItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.PlanItem, *types.ImprovementPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.PlanItem
	err := transaction.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	var plan types.ImprovementPlan
	if err := transaction.WithContext(ctx).Where("id = ?", item.PlanID).First(&plan).Error; err != nil {
		return nil, nil, err
	}
	return &item, &plan, nil
}

func (r *planRepo) UpdateItemStatus(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, status types.PlanItemStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.PlanItem{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}
