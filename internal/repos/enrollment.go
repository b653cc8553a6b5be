package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error)
  GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*types.Enrollment, error)
  GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Enrollment, error)
  GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Enrollment, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error
}

type enrollmentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
  repoLog := baseLog.With("repo", "EnrollmentRepo")
  return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error {
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

func (r *enrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.Enrollment
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

func (r *enrollmentRepo) GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.Enrollment
  if err := transaction.WithContext(ctx).
    Where("student_id = ? AND course_id = ?", studentID, courseID).
    First(&row).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &row, nil
}

func (r *enrollmentRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Enrollment
  if studentID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("student_id = ?", studentID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *enrollmentRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Enrollment
  if courseID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("course_id = ?", courseID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *enrollmentRepo) Save(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error {
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
