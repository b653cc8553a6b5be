package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type ProjectSubmissionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.ProjectSubmission) error
  GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.ProjectSubmission, error)
  GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.ProjectSubmission, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.ProjectSubmission) error
}

type projectSubmissionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewProjectSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) ProjectSubmissionRepo {
  repoLog := baseLog.With("repo", "ProjectSubmissionRepo")
  return &projectSubmissionRepo{db: db, log: repoLog}
}

func (r *projectSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ProjectSubmission) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *projectSubmissionRepo) GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.ProjectSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.ProjectSubmission
  if err := transaction.WithContext(ctx).
    Where("attempt_id = ?", attemptID).
    First(&row).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &row, nil
}

func (r *projectSubmissionRepo) GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.ProjectSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ProjectSubmission
  if len(attemptIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("attempt_id IN ?", attemptIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *projectSubmissionRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ProjectSubmission) error {
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
