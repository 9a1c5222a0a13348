package research

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type SavedGapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, gap *types.SavedResearchGap) (*types.SavedResearchGap, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.SavedResearchGap, error)
	// Delete removes the owner's gap and reports how many rows went away.
	Delete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (int64, error)
}

type savedGapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedGapRepo(db *gorm.DB, baseLog *logger.Logger) SavedGapRepo {
	repoLog := logger.OrNop(baseLog).With("repo", "SavedGapRepo")
	return &savedGapRepo{db: db, log: repoLog}
}

func (r *savedGapRepo) Create(ctx context.Context, tx *gorm.DB, gap *types.SavedResearchGap) (*types.SavedResearchGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(gap).Error; err != nil {
		return nil, err
	}
	return gap, nil
}

func (r *savedGapRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.SavedResearchGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SavedResearchGap
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedGapRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&types.SavedResearchGap{})
	return res.RowsAffected, res.Error
}
