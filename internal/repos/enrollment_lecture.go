package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentLectureRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentLecture) ([]*types.EnrollmentLecture, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentLecture, error)
  GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentLecture, error)
  GetByEnrollmentAndLecture(ctx context.Context, tx *gorm.DB, enrollmentID, lectureID uuid.UUID) (*types.EnrollmentLecture, error)
  GetByModuleRowID(ctx context.Context, tx *gorm.DB, enrollmentModuleID uuid.UUID) ([]*types.EnrollmentLecture, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentLecture) error
}

type enrollmentLectureRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentLectureRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentLectureRepo {
  repoLog := baseLog.With("repo", "EnrollmentLectureRepo")
  return &enrollmentLectureRepo{db: db, log: repoLog}
}

func (r *enrollmentLectureRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentLecture) ([]*types.EnrollmentLecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EnrollmentLecture{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *enrollmentLectureRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentLecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentLecture
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

func (r *enrollmentLectureRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.EnrollmentLecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EnrollmentLecture
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

func (r *enrollmentLectureRepo) GetByEnrollmentAndLecture(ctx context.Context, tx *gorm.DB, enrollmentID, lectureID uuid.UUID) (*types.EnrollmentLecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentLecture
  if err := transaction.WithContext(ctx).
    Where("enrollment_id = ? AND lecture_id = ?", enrollmentID, lectureID).
    First(&row).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &row, nil
}

func (r *enrollmentLectureRepo) GetByModuleRowID(ctx context.Context, tx *gorm.DB, enrollmentModuleID uuid.UUID) ([]*types.EnrollmentLecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EnrollmentLecture
  if enrollmentModuleID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("enrollment_module_id = ?", enrollmentModuleID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *enrollmentLectureRepo) Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentLecture) error {
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
