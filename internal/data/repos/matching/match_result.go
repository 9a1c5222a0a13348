package matching

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type MatchResultRepo interface {
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.MatchResult, error)
	GetByStudentOpportunity(ctx context.Context, tx *gorm.DB, studentID, opportunityID uuid.UUID) (*types.MatchResult, error)
	ReplaceForStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, results []*types.MatchResult) ([]*types.MatchResult, error)
	ListByMentorStudent(ctx context.Context, tx *gorm.DB, mentorID, studentID uuid.UUID) ([]*types.MatchResult, error)
}

type matchResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchResultRepo(db *gorm.DB, baseLog *logger.Logger) MatchResultRepo {
	repoLog := logger.OrNop(baseLog).With("repo", "MatchResultRepo")
	return &matchResultRepo{db: db, log: repoLog}
}

func (r *matchResultRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.MatchResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MatchResult
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("rank ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *matchResultRepo) GetByStudentOpportunity(ctx context.Context, tx *gorm.DB, studentID, opportunityID uuid.UUID) (*types.MatchResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.MatchResult
	err := transaction.WithContext(ctx).
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

// ReplaceForStudent swaps the student's whole ranked list in one transaction.
func (r *matchResultRepo) ReplaceForStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, results []*types.MatchResult) ([]*types.MatchResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("student_id = ?", studentID).Delete(&types.MatchResult{}).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		for _, m := range results {
			m.StudentID = studentID
		}
		return inner.Create(&results).Error
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *matchResultRepo) ListByMentorStudent(ctx context.Context, tx *gorm.DB, mentorID, studentID uuid.UUID) ([]*types.MatchResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MatchResult
	if err := transaction.WithContext(ctx).
		Where("mentor_id = ? AND student_id = ?", mentorID, studentID).
		Order("rank ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
