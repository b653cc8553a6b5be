package services

import (
  "context"
  "fmt"
  "math"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/repos"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// Pure aggregation rules. Progress is always recomputed from the snapshot,
// never patched incrementally, so running any of these twice on unchanged
// state yields the same value.

// LectureProgress computes a lecture's progress and status from its watched
// flag and its material rows. Materials contribute half the weight and the
// watched flag the other half; a lecture with no materials counts its
// material half as done.
func LectureProgress(isWatched bool, consumedMaterials, totalMaterials int) (float64, string) {
  materialProgress := 100.0
  if totalMaterials > 0 {
    materialProgress = float64(consumedMaterials) / float64(totalMaterials) * 100
  }

  progress := materialProgress * 0.5
  if isWatched {
    progress = math.Min(100, materialProgress*0.5+50)
  }

  status := types.StatusNotStarted
  switch {
  case isWatched && materialProgress == 100:
    progress = 100
    status = types.StatusCompleted
  case progress > 0:
    status = types.StatusInProgress
  }
  return progress, status
}

// ModuleProgress is the plain average of the module's lecture progresses.
func ModuleProgress(lectureProgresses []float64) (float64, string) {
  if len(lectureProgresses) == 0 {
    return 0, types.StatusNotStarted
  }
  sum := 0.0
  for _, p := range lectureProgresses {
    sum += p
  }
  avg := sum / float64(len(lectureProgresses))

  status := types.StatusNotStarted
  switch {
  case avg == 100:
    status = types.StatusCompleted
  case avg > 0:
    status = types.StatusInProgress
  }
  return avg, status
}

// EnrollmentProgress weights every module, lecture and assessment attempt
// equally: the denominator is the flat count of all of them, passed attempts
// contribute 100 each, and the result is rounded to 2 decimals.
func EnrollmentProgress(moduleProgresses, lectureProgresses []float64, passedAttempts, totalAttempts int) float64 {
  n := len(moduleProgresses) + len(lectureProgresses) + totalAttempts
  if n == 0 {
    return 0
  }
  sum := 0.0
  for _, p := range moduleProgresses {
    sum += p
  }
  for _, p := range lectureProgresses {
    sum += p
  }
  sum += 100 * float64(passedAttempts)
  return Round2(sum / float64(n))
}

func Round2(v float64) float64 {
  return math.Round(v*100) / 100
}

// ProgressAggregator recomputes the derived progress columns after a leaf
// mutation, inside the caller's transaction.
type ProgressAggregator interface {
  RecomputeLecture(ctx context.Context, tx *gorm.DB, lecture *types.EnrollmentLecture) error
  RefreshLecture(ctx context.Context, tx *gorm.DB, lecture *types.EnrollmentLecture) error
  RecomputeModule(ctx context.Context, tx *gorm.DB, enrollmentModuleID uuid.UUID) error
  RecomputeEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (float64, error)
}

type progressAggregator struct {
  db           *gorm.DB
  log          *logger.Logger
  enrollmentRepo repos.EnrollmentRepo
  moduleRepo   repos.EnrollmentModuleRepo
  lectureRepo  repos.EnrollmentLectureRepo
  materialRepo repos.EnrollmentMaterialRepo
  quizRepo     repos.EnrollmentQuizRepo
  examRepo     repos.EnrollmentExamRepo
  projectRepo  repos.EnrollmentProjectRepo
  quizSubRepo  repos.QuizSubmissionRepo
  examSubRepo  repos.ExamSubmissionRepo
  projSubRepo  repos.ProjectSubmissionRepo
  audit        AuditLog
}

func NewProgressAggregator(
  db *gorm.DB,
  baseLog *logger.Logger,
  enrollmentRepo repos.EnrollmentRepo,
  moduleRepo repos.EnrollmentModuleRepo,
  lectureRepo repos.EnrollmentLectureRepo,
  materialRepo repos.EnrollmentMaterialRepo,
  quizRepo repos.EnrollmentQuizRepo,
  examRepo repos.EnrollmentExamRepo,
  projectRepo repos.EnrollmentProjectRepo,
  quizSubRepo repos.QuizSubmissionRepo,
  examSubRepo repos.ExamSubmissionRepo,
  projSubRepo repos.ProjectSubmissionRepo,
  audit AuditLog,
) ProgressAggregator {
  return &progressAggregator{
    db:             db,
    log:            baseLog.With("service", "ProgressAggregator"),
    enrollmentRepo: enrollmentRepo,
    moduleRepo:     moduleRepo,
    lectureRepo:    lectureRepo,
    materialRepo:   materialRepo,
    quizRepo:       quizRepo,
    examRepo:       examRepo,
    projectRepo:    projectRepo,
    quizSubRepo:    quizSubRepo,
    examSubRepo:    examSubRepo,
    projSubRepo:    projSubRepo,
    audit:          audit,
  }
}

// RecomputeLecture refreshes the lecture row from its material rows, then
// cascades to the owning module row and the enrollment.
func (a *progressAggregator) RecomputeLecture(ctx context.Context, tx *gorm.DB, lecture *types.EnrollmentLecture) error {
  transaction := tx
  if transaction == nil {
    transaction = a.db
  }

  if err := a.RefreshLecture(ctx, transaction, lecture); err != nil {
    return err
  }

  if err := a.RecomputeModule(ctx, transaction, lecture.EnrollmentModuleID); err != nil {
    return err
  }

  _, err := a.RecomputeEnrollment(ctx, transaction, lecture.EnrollmentID)
  return err
}

// RefreshLecture rebuilds a single lecture row from its material rows without
// cascading. A lecture can regress below 100 when a sync attaches new
// materials, so the completion timestamp is cleared with the status.
func (a *progressAggregator) RefreshLecture(ctx context.Context, tx *gorm.DB, lecture *types.EnrollmentLecture) error {
  transaction := tx
  if transaction == nil {
    transaction = a.db
  }

  materials, err := a.materialRepo.GetByLectureRowID(ctx, transaction, lecture.ID)
  if err != nil {
    return fmt.Errorf("load lecture materials: %w", err)
  }
  consumed := 0
  for _, m := range materials {
    if m.IsViewed || m.IsDownloaded {
      consumed++
    }
  }

  progress, status := LectureProgress(lecture.IsWatched, consumed, len(materials))
  lecture.Progress = progress
  lecture.Status = status
  if status == types.StatusCompleted {
    if lecture.CompletedAt == nil {
      now := time.Now().UTC()
      lecture.CompletedAt = &now
    }
  } else {
    lecture.CompletedAt = nil
  }
  if err := a.lectureRepo.Save(ctx, transaction, lecture); err != nil {
    return fmt.Errorf("save lecture progress: %w", err)
  }
  return nil
}

// RecomputeModule re-averages a module row from its stored lecture progresses.
func (a *progressAggregator) RecomputeModule(ctx context.Context, tx *gorm.DB, enrollmentModuleID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = a.db
  }

  module, err := a.moduleRepo.GetByID(ctx, transaction, enrollmentModuleID)
  if err != nil {
    return fmt.Errorf("load module row: %w", err)
  }
  if module == nil {
    return nil
  }

  lectures, err := a.lectureRepo.GetByModuleRowID(ctx, transaction, module.ID)
  if err != nil {
    return fmt.Errorf("load module lectures: %w", err)
  }
  progresses := make([]float64, 0, len(lectures))
  for _, l := range lectures {
    progresses = append(progresses, l.Progress)
  }

  progress, status := ModuleProgress(progresses)
  module.Progress = progress
  module.Status = status
  if status == types.StatusCompleted {
    if module.CompletedAt == nil {
      now := time.Now().UTC()
      module.CompletedAt = &now
    }
  } else {
    module.CompletedAt = nil
  }
  if err := a.moduleRepo.Save(ctx, transaction, module); err != nil {
    return fmt.Errorf("save module progress: %w", err)
  }
  return nil
}

// RecomputeEnrollment rebuilds the enrollment percentage from every snapshot
// row. Passed counts come from submission statuses, not attempt statuses.
func (a *progressAggregator) RecomputeEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (float64, error) {
  transaction := tx
  if transaction == nil {
    transaction = a.db
  }

  enrollment, err := a.enrollmentRepo.GetByID(ctx, transaction, enrollmentID)
  if err != nil {
    return 0, fmt.Errorf("load enrollment: %w", err)
  }
  if enrollment == nil {
    return 0, nil
  }

  modules, err := a.moduleRepo.GetByEnrollmentID(ctx, transaction, enrollmentID)
  if err != nil {
    return 0, fmt.Errorf("load module rows: %w", err)
  }
  lectures, err := a.lectureRepo.GetByEnrollmentID(ctx, transaction, enrollmentID)
  if err != nil {
    return 0, fmt.Errorf("load lecture rows: %w", err)
  }

  moduleProgresses := make([]float64, 0, len(modules))
  for _, m := range modules {
    moduleProgresses = append(moduleProgresses, m.Progress)
  }
  lectureProgresses := make([]float64, 0, len(lectures))
  for _, l := range lectures {
    lectureProgresses = append(lectureProgresses, l.Progress)
  }

  totalAttempts := 0
  passedAttempts := 0

  quizzes, err := a.quizRepo.GetByEnrollmentID(ctx, transaction, enrollmentID)
  if err != nil {
    return 0, fmt.Errorf("load quiz attempts: %w", err)
  }
  totalAttempts += len(quizzes)
  ids := make([]uuid.UUID, 0, len(quizzes))
  for _, q := range quizzes {
    ids = append(ids, q.ID)
  }
  quizSubs, err := a.quizSubRepo.GetByAttemptIDs(ctx, transaction, ids)
  if err != nil {
    return 0, fmt.Errorf("load quiz submissions: %w", err)
  }
  for _, s := range quizSubs {
    if s.Status == types.SubmissionPassed {
      passedAttempts++
    }
  }

  exams, err := a.examRepo.GetByEnrollmentID(ctx, transaction, enrollmentID)
  if err != nil {
    return 0, fmt.Errorf("load exam attempts: %w", err)
  }
  totalAttempts += len(exams)
  ids = ids[:0]
  for _, e := range exams {
    ids = append(ids, e.ID)
  }
  examSubs, err := a.examSubRepo.GetByAttemptIDs(ctx, transaction, ids)
  if err != nil {
    return 0, fmt.Errorf("load exam submissions: %w", err)
  }
  for _, s := range examSubs {
    if s.Status == types.SubmissionPassed {
      passedAttempts++
    }
  }

  projects, err := a.projectRepo.GetByEnrollmentID(ctx, transaction, enrollmentID)
  if err != nil {
    return 0, fmt.Errorf("load project attempts: %w", err)
  }
  totalAttempts += len(projects)
  ids = ids[:0]
  for _, p := range projects {
    ids = append(ids, p.ID)
  }
  projSubs, err := a.projSubRepo.GetByAttemptIDs(ctx, transaction, ids)
  if err != nil {
    return 0, fmt.Errorf("load project submissions: %w", err)
  }
  for _, s := range projSubs {
    if s.Status == types.SubmissionPassed {
      passedAttempts++
    }
  }

  progress := EnrollmentProgress(moduleProgresses, lectureProgresses, passedAttempts, totalAttempts)
  enrollment.Progress = progress
  if progress >= 100 && enrollment.Status != types.EnrollmentCompleted {
    enrollment.Status = types.EnrollmentCompleted
    now := time.Now().UTC()
    enrollment.CompletedAt = &now
    if a.audit != nil {
      a.audit.Record(ctx, enrollment.StudentID, enrollment.CourseID, "completed the course", map[string]interface{}{
        "enrollment_id": enrollment.ID.String(),
      })
    }
  }
  if err := a.enrollmentRepo.Save(ctx, transaction, enrollment); err != nil {
    return 0, fmt.Errorf("save enrollment progress: %w", err)
  }
  return progress, nil
}
