package research

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type GapSuggestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.GapSuggestion) ([]*types.GapSuggestion, error)
	ListForPair(ctx context.Context, tx *gorm.DB, mentorID, studentID uuid.UUID) ([]*types.GapSuggestion, error)
}

type gapSuggestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGapSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) GapSuggestionRepo {
	repoLog := logger.OrNop(baseLog).With("repo", "GapSuggestionRepo")
	return &gapSuggestionRepo{db: db, log: repoLog}
}

func (r *gapSuggestionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.GapSuggestion) ([]*types.GapSuggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.GapSuggestion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gapSuggestionRepo) ListForPair(ctx context.Context, tx *gorm.DB, mentorID, studentID uuid.UUID) ([]*types.GapSuggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.GapSuggestion
	if err := transaction.WithContext(ctx).
		Where("mentor_id = ? AND student_id = ?", mentorID, studentID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
