package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentMaterialRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentLectureMaterial) ([]*types.EnrollmentLectureMaterial, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentLectureMaterial, error)
  GetByLectureRowID(ctx context.Context, tx *gorm.DB, enrollmentLectureID uuid.UUID) ([]*types.EnrollmentLectureMaterial, error)
  GetByLectureRowIDs(ctx context.Context, tx *gorm.DB, enrollmentLectureIDs []uuid.UUID) ([]*types.EnrollmentLectureMaterial, error)
  GetByEnrollmentAndMaterial(ctx context.Context, tx *gorm.DB, enrollmentID, materialID uuid.UUID) (*types.EnrollmentLectureMaterial, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentLectureMaterial) error
}

type enrollmentMaterialRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentMaterialRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentMaterialRepo {
  repoLog := baseLog.With("repo", "EnrollmentMaterialRepo")
  return &enrollmentMaterialRepo{db: db, log: repoLog}
}

func (r *enrollmentMaterialRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EnrollmentLectureMaterial) ([]*types.EnrollmentLectureMaterial, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EnrollmentLectureMaterial{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *enrollmentMaterialRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EnrollmentLectureMaterial, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentLectureMaterial
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

func (r *enrollmentMaterialRepo) GetByLectureRowID(ctx context.Context, tx *gorm.DB, enrollmentLectureID uuid.UUID) ([]*types.EnrollmentLectureMaterial, error) {
  return r.GetByLectureRowIDs(ctx, tx, []uuid.UUID{enrollmentLectureID})
}

func (r *enrollmentMaterialRepo) GetByLectureRowIDs(ctx context.Context, tx *gorm.DB, enrollmentLectureIDs []uuid.UUID) ([]*types.EnrollmentLectureMaterial, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EnrollmentLectureMaterial
  if len(enrollmentLectureIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("enrollment_lecture_id IN ?", enrollmentLectureIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *enrollmentMaterialRepo) GetByEnrollmentAndMaterial(ctx context.Context, tx *gorm.DB, enrollmentID, materialID uuid.UUID) (*types.EnrollmentLectureMaterial, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.EnrollmentLectureMaterial
  if err := transaction.WithContext(ctx).
    Joins("JOIN enrollment_lecture ON enrollment_lecture.id = enrollment_lecture_material.enrollment_lecture_id").
    Where("enrollment_lecture.enrollment_id = ? AND enrollment_lecture_material.material_id = ?", enrollmentID, materialID).
    First(&row).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &row, nil
}

func (r *enrollmentMaterialRepo) Save(ctx context.Context, tx *gorm.DB, row *types.EnrollmentLectureMaterial) error {
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
