package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentProjectRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentProject) ([]*types.EnrollmentProject, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentProject, error)
  GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentProject, error)
  ExistsRemedialOf(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (bool, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentProject) error
}

type enrollmentProjectRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentProjectRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentProjectRepo {
  repoLog := baseLog.With("repo", "EnrollmentProjectRepo")
  return &enrollmentProjectRepo{db: db, log: repoLog}
}

func (r *enrollmentProjectRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentProject) ([]*types.EnrollmentProject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EnrollmentProject{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *enrollmentProjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentProject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentProject
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

func (r *enrollmentProjectRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentProject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EnrollmentProject
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

func (r *enrollmentProjectRepo) ExistsRemedialOf(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.EnrollmentProject{}).
    Where("remedial_of = ?", attemptID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *enrollmentProjectRepo) Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentProject) error {
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
