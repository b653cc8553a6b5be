package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type ExamSubmissionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.ExamSubmission) error
  GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.ExamSubmission, error)
  GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.ExamSubmission, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.ExamSubmission) error
}

type examSubmissionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewExamSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) ExamSubmissionRepo {
  repoLog := baseLog.With("repo", "ExamSubmissionRepo")
  return &examSubmissionRepo{db: db, log: repoLog}
}

func (r *examSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ExamSubmission) error {
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

func (r *examSubmissionRepo) GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.ExamSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.ExamSubmission
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

func (r *examSubmissionRepo) GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.ExamSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ExamSubmission
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

func (r *examSubmissionRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ExamSubmission) error {
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
