package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentQuizRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentQuiz) ([]*types.EnrollmentQuiz, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentQuiz, error)
  GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentQuiz, error)
  ExistsRemedialOf(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (bool, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentQuiz) error
}

type enrollmentQuizRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentQuizRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentQuizRepo {
  repoLog := baseLog.With("repo", "EnrollmentQuizRepo")
  return &enrollmentQuizRepo{db: db, log: repoLog}
}

func (r *enrollmentQuizRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentQuiz) ([]*types.EnrollmentQuiz, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EnrollmentQuiz{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *enrollmentQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentQuiz, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentQuiz
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

func (r *enrollmentQuizRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentQuiz, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EnrollmentQuiz
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

func (r *enrollmentQuizRepo) ExistsRemedialOf(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.EnrollmentQuiz{}).
    Where("remedial_of = ?", attemptID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *enrollmentQuizRepo) Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentQuiz) error {
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
