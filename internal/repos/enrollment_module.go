package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentModuleRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentModule) ([]*types.EnrollmentModule, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentModule, error)
  GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentModule, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentModule) error
}

type enrollmentModuleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentModuleRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentModuleRepo {
  repoLog := baseLog.With("repo", "EnrollmentModuleRepo")
  return &enrollmentModuleRepo{db: db, log: repoLog}
}

func (r *enrollmentModuleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentModule) ([]*types.EnrollmentModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EnrollmentModule{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *enrollmentModuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentModule
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

func (r *enrollmentModuleRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EnrollmentModule
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

func (r *enrollmentModuleRepo) Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentModule) error {
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
