package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// ContentRepo is the read-only boundary over authored course content. The
// engine never writes through it.
type ContentRepo interface {
  GetCourseByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
  LoadCourseTree(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.CourseTree, error)
  TrainerAssignedToCourse(ctx context.Context, tx *gorm.DB, courseID, trainerID uuid.UUID) (bool, error)
  GetQuizByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quiz, error)
  GetExamByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exam, error)
  GetProjectByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error)
}

type contentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
  repoLog := baseLog.With("repo", "ContentRepo")
  return &contentRepo{db: db, log: repoLog}
}

func (r *contentRepo) GetCourseByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var course types.Course
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&course).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &course, nil
}

// LoadCourseTree loads the full authored tree of a course. The independent
// branches (modules+lectures+materials, quizzes, exams, projects) load
// concurrently; the tree is assembled once every branch has returned.
func (r *contentRepo) LoadCourseTree(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.CourseTree, error) {
  course, err := r.GetCourseByID(ctx, tx, courseID)
  if err != nil {
    return nil, err
  }
  if course == nil {
    return nil, nil
  }

  tree := &types.CourseTree{
    Course:    course,
    Lectures:  map[uuid.UUID][]*types.Lecture{},
    Materials: map[uuid.UUID][]*types.LectureMaterial{},
  }

  // Branch loads run against the pool, not the caller's transaction: a
  // *gorm.DB transaction is not safe for concurrent use.
  g, gctx := errgroup.WithContext(ctx)

  var lectures []*types.Lecture
  var materials []*types.LectureMaterial

  g.Go(func() error {
    if err := r.db.WithContext(gctx).
      Where("course_id = ?", courseID).
      Order(`"index" ASC`).
      Find(&tree.Modules).Error; err != nil {
      return err
    }
    moduleIDs := make([]uuid.UUID, 0, len(tree.Modules))
    for _, m := range tree.Modules {
      moduleIDs = append(moduleIDs, m.ID)
    }
    if len(moduleIDs) == 0 {
      return nil
    }
    if err := r.db.WithContext(gctx).
      Where("module_id IN ?", moduleIDs).
      Order(`"index" ASC`).
      Find(&lectures).Error; err != nil {
      return err
    }
    lectureIDs := make([]uuid.UUID, 0, len(lectures))
    for _, l := range lectures {
      lectureIDs = append(lectureIDs, l.ID)
    }
    if len(lectureIDs) == 0 {
      return nil
    }
    return r.db.WithContext(gctx).
      Where("lecture_id IN ?", lectureIDs).
      Find(&materials).Error
  })
  g.Go(func() error {
    return r.db.WithContext(gctx).
      Where("course_id = ?", courseID).
      Find(&tree.Quizzes).Error
  })
  g.Go(func() error {
    return r.db.WithContext(gctx).
      Where("course_id = ?", courseID).
      Find(&tree.Exams).Error
  })
  g.Go(func() error {
    return r.db.WithContext(gctx).
      Where("course_id = ?", courseID).
      Find(&tree.Projects).Error
  })

  if err := g.Wait(); err != nil {
    return nil, err
  }

  for _, l := range lectures {
    tree.Lectures[l.ModuleID] = append(tree.Lectures[l.ModuleID], l)
  }
  for _, m := range materials {
    tree.Materials[m.LectureID] = append(tree.Materials[m.LectureID], m)
  }
  return tree, nil
}

func (r *contentRepo) TrainerAssignedToCourse(ctx context.Context, tx *gorm.DB, courseID, trainerID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  course, err := r.GetCourseByID(ctx, tx, courseID)
  if err != nil {
    return false, err
  }
  if course != nil && course.TrainerID == trainerID {
    return true, nil
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.CourseTrainer{}).
    Where("course_id = ? AND trainer_id = ?", courseID, trainerID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *contentRepo) GetQuizByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quiz, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var quiz types.Quiz
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&quiz).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &quiz, nil
}

func (r *contentRepo) GetExamByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Exam, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var exam types.Exam
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&exam).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &exam, nil
}

func (r *contentRepo) GetProjectByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var project types.Project
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&project).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &project, nil
}
