package matching

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type StudentProfileRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.StudentProfile) error
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentProfile, error)
}

type studentProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentProfileRepo(db *gorm.DB, baseLog *logger.Logger) StudentProfileRepo {
	repoLog := logger.OrNop(baseLog).With("repo", "StudentProfileRepo")
	return &studentProfileRepo{db: db, log: repoLog}
}

func (r *studentProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.StudentProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "skills", "interests", "updated_at"}),
		}).
		Create(profile).Error
}

// GetByStudentID returns nil, nil when the student has no profile.
func (r *studentProfileRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.StudentProfile
	err := transaction.WithContext(ctx).Where("student_id = ?", studentID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
