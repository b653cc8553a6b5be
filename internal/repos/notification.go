package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type NotificationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.Notification) error
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error)
}

type notificationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
  repoLog := baseLog.With("repo", "NotificationRepo")
  return &notificationRepo{db: db, log: repoLog}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Notification) error {
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

func (r *notificationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Notification
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

type ActivityLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.ActivityLog) error
}

type activityLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ActivityLogRepo {
  repoLog := baseLog.With("repo", "ActivityLogRepo")
  return &activityLogRepo{db: db, log: repoLog}
}

func (r *activityLogRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ActivityLog) error {
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
