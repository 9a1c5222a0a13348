package applications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type ApplicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, app *types.Application) (*types.Application, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Application, error)
	Exists(ctx context.Context, tx *gorm.DB, studentID, opportunityID uuid.UUID) (bool, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Application, error)
	ListByMentor(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) ([]*types.Application, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ApplicationStatus) error
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	repoLog := logger.OrNop(baseLog).With("repo", "ApplicationRepo")
	return &applicationRepo{db: db, log: repoLog}
}

func (r *applicationRepo) Create(ctx context.Context, tx *gorm.DB, app *types.Application) (*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Omit("Opportunity").Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// GetByID preloads the opportunity and returns nil, nil when not found.
func (r *applicationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Application
	err := transaction.WithContext(ctx).
		Preload("Opportunity").
		Where("id = ?", id).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *applicationRepo) Exists(ctx context.Context, tx *gorm.DB, studentID, opportunityID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("student_id = ? AND opportunity_id = ?", studentID, opportunityID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Application
	if err := transaction.WithContext(ctx).
		Preload("Opportunity").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByMentor returns applications to any opportunity the mentor owns.
func (r *applicationRepo) ListByMentor(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) ([]*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Application
	if err := transaction.WithContext(ctx).
		Preload("Opportunity").
		Where("opportunity_id IN (?)",
			transaction.Model(&types.Opportunity{}).Select("id").Where("mentor_id = ?", mentorID),
		).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ApplicationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}
