package applications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type OpportunityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, opps []*types.Opportunity) ([]*types.Opportunity, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Opportunity, error)
	ListOpen(ctx context.Context, tx *gorm.DB) ([]*types.Opportunity, error)
	ListByMentor(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) ([]*types.Opportunity, error)
}

type opportunityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOpportunityRepo(db *gorm.DB, baseLog *logger.Logger) OpportunityRepo {
	repoLog := logger.OrNop(baseLog).With("repo", "OpportunityRepo")
	return &opportunityRepo{db: db, log: repoLog}
}

func (r *opportunityRepo) Create(ctx context.Context, tx *gorm.DB, opps []*types.Opportunity) ([]*types.Opportunity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(opps) == 0 {
		return []*types.Opportunity{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}

// GetByID returns nil, nil when the opportunity does not exist.
func (r *opportunityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Opportunity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Opportunity
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *opportunityRepo) ListOpen(ctx context.Context, tx *gorm.DB) ([]*types.Opportunity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Opportunity
	if err := transaction.WithContext(ctx).
		Where("is_open = ?", true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *opportunityRepo) ListByMentor(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) ([]*types.Opportunity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Opportunity
	if err := transaction.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
