package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type QuizSubmissionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.QuizSubmission) error
  GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.QuizSubmission, error)
  GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.QuizSubmission, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.QuizSubmission) error
}

type quizSubmissionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewQuizSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) QuizSubmissionRepo {
  repoLog := baseLog.With("repo", "QuizSubmissionRepo")
  return &quizSubmissionRepo{db: db, log: repoLog}
}

func (r *quizSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.QuizSubmission) error {
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

func (r *quizSubmissionRepo) GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.QuizSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.QuizSubmission
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

func (r *quizSubmissionRepo) GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.QuizSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.QuizSubmission
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

func (r *quizSubmissionRepo) Save(ctx context.Context, tx *gorm.DB, row *types.QuizSubmission) error {
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
