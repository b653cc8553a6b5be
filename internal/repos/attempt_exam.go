package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentExamRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentExam) ([]*types.EnrollmentExam, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentExam, error)
  GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentExam, error)
  ExistsRemedialOf(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (bool, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentExam) error
}

type enrollmentExamRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentExamRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentExamRepo {
  repoLog := baseLog.With("repo", "EnrollmentExamRepo")
  return &enrollmentExamRepo{db: db, log: repoLog}
}

func (r *enrollmentExamRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentExam) ([]*types.EnrollmentExam, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EnrollmentExam{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *enrollmentExamRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentExam, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentExam
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&row).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &row, nil
}

func (r *enrollmentExamRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentExam, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EnrollmentExam
  if enrollmentID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("enrollment_id = ?", enrollmentID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *enrollmentExamRepo) ExistsRemedialOf(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.EnrollmentExam{}).
    Where("remedial_of = ?", attemptID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *enrollmentExamRepo) Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentExam) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
    return err
  }
  return nil
}
