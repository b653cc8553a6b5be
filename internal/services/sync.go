package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/cache"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/repos"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// SyncResult counts the snapshot rows a reconciliation added.
type SyncResult struct {
  Modules   int `json:"modules"`
  Lectures  int `json:"lectures"`
  Materials int `json:"materials"`
  Quizzes   int `json:"quizzes"`
  Exams     int `json:"exams"`
  Projects  int `json:"projects"`
}

func (r SyncResult) Total() int {
  return r.Modules + r.Lectures + r.Materials + r.Quizzes + r.Exams + r.Projects
}

// SyncService reconciles existing enrollments with content published after
// the snapshot was taken. It only ever adds not_started rows; nothing is
// mutated or removed, so running it twice is a no-op the second time.
type SyncService interface {
  SyncEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*SyncResult, error)
  SyncEnrollmentFor(ctx context.Context, actor types.Actor, enrollmentID uuid.UUID) (*SyncResult, error)
  SyncCourse(ctx context.Context, actor types.Actor, courseID uuid.UUID) (map[uuid.UUID]*SyncResult, error)
}

type syncService struct {
  db             *gorm.DB
  log            *logger.Logger
  contentRepo    repos.ContentRepo
  userRepo       repos.UserRepo
  enrollmentRepo repos.EnrollmentRepo
  moduleRepo     repos.EnrollmentModuleRepo
  lectureRepo    repos.EnrollmentLectureRepo
  materialRepo   repos.EnrollmentMaterialRepo
  quizRepo       repos.EnrollmentQuizRepo
  examRepo       repos.EnrollmentExamRepo
  projectRepo    repos.EnrollmentProjectRepo
  aggregator     ProgressAggregator
  progressCache  *cache.ProgressCache
}

func NewSyncService(
  db *gorm.DB,
  baseLog *logger.Logger,
  contentRepo repos.ContentRepo,
  userRepo repos.UserRepo,
  enrollmentRepo repos.EnrollmentRepo,
  moduleRepo repos.EnrollmentModuleRepo,
  lectureRepo repos.EnrollmentLectureRepo,
  materialRepo repos.EnrollmentMaterialRepo,
  quizRepo repos.EnrollmentQuizRepo,
  examRepo repos.EnrollmentExamRepo,
  projectRepo repos.EnrollmentProjectRepo,
  aggregator ProgressAggregator,
  progressCache *cache.ProgressCache,
) SyncService {
  return &syncService{
    db:             db,
    log:            baseLog.With("service", "SyncService"),
    contentRepo:    contentRepo,
    userRepo:       userRepo,
    enrollmentRepo: enrollmentRepo,
    moduleRepo:     moduleRepo,
    lectureRepo:    lectureRepo,
    materialRepo:   materialRepo,
    quizRepo:       quizRepo,
    examRepo:       examRepo,
    projectRepo:    projectRepo,
    aggregator:     aggregator,
    progressCache:  progressCache,
  }
}

// SyncEnrollmentFor is the request-facing variant: the enrolled student, an
// admin, or a trainer assigned to the course may trigger the reconciliation.
func (s *syncService) SyncEnrollmentFor(ctx context.Context, actor types.Actor, enrollmentID uuid.UUID) (*SyncResult, error) {
  enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load enrollment: %w", err))
  }
  if enrollment == nil {
    return nil, apperr.NotFound("enrollment not found")
  }
  if !actor.IsAdmin() && enrollment.StudentID != actor.ID {
    assigned := false
    if actor.IsTrainer() {
      assigned, err = s.contentRepo.TrainerAssignedToCourse(ctx, nil, enrollment.CourseID, actor.ID)
      if err != nil {
        return nil, apperr.Internal(fmt.Errorf("check trainer assignment: %w", err))
      }
    }
    if !assigned {
      return nil, apperr.Authorization("not allowed to sync this enrollment")
    }
  }
  return s.SyncEnrollment(ctx, enrollmentID)
}

func (s *syncService) SyncEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*SyncResult, error) {
  enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load enrollment: %w", err))
  }
  if enrollment == nil {
    return nil, apperr.NotFound("enrollment not found")
  }

  tree, err := s.contentRepo.LoadCourseTree(ctx, nil, enrollment.CourseID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load course tree: %w", err))
  }
  if tree == nil {
    return nil, apperr.NotFound("course not found")
  }

  student, err := s.userRepo.GetByID(ctx, nil, enrollment.StudentID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load student: %w", err))
  }
  institutionID := uuid.Nil
  if student != nil {
    institutionID = student.InstitutionID
  }

  result := &SyncResult{}
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    return s.reconcile(ctx, tx, enrollment, tree, institutionID, result)
  })
  if err != nil {
    s.log.Error("SyncEnrollment failed", "error", err, "enrollment_id", enrollmentID)
    return nil, apperr.Internal(err)
  }

  if result.Total() > 0 {
    s.progressCache.Invalidate(ctx, enrollmentID)
    s.log.Info("Enrollment snapshot reconciled", "enrollment_id", enrollmentID,
      "added_modules", result.Modules, "added_lectures", result.Lectures,
      "added_materials", result.Materials, "added_quizzes", result.Quizzes,
      "added_exams", result.Exams, "added_projects", result.Projects)
  }
  return result, nil
}

func (s *syncService) reconcile(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment, tree *types.CourseTree, institutionID uuid.UUID, result *SyncResult) error {
  existingModules, err := s.moduleRepo.GetByEnrollmentID(ctx, tx, enrollment.ID)
  if err != nil {
    return fmt.Errorf("load module rows: %w", err)
  }
  moduleRowIDs := map[uuid.UUID]uuid.UUID{}
  for _, m := range existingModules {
    moduleRowIDs[m.ModuleID] = m.ID
  }

  var newModules []*types.EnrollmentModule
  for _, m := range tree.Modules {
    if _, ok := moduleRowIDs[m.ID]; ok {
      continue
    }
    row := &types.EnrollmentModule{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      ModuleID:     m.ID,
      Status:       types.StatusNotStarted,
    }
    moduleRowIDs[m.ID] = row.ID
    newModules = append(newModules, row)
  }
  if _, err := s.moduleRepo.Create(ctx, tx, newModules); err != nil {
    return fmt.Errorf("create module rows: %w", err)
  }
  result.Modules = len(newModules)

  existingLectures, err := s.lectureRepo.GetByEnrollmentID(ctx, tx, enrollment.ID)
  if err != nil {
    return fmt.Errorf("load lecture rows: %w", err)
  }
  lectureRowIDs := map[uuid.UUID]uuid.UUID{}
  lectureRowsByID := map[uuid.UUID]*types.EnrollmentLecture{}
  for _, l := range existingLectures {
    lectureRowIDs[l.LectureID] = l.ID
    lectureRowsByID[l.ID] = l
  }

  // Rows whose stored progress went stale because the sync grew their
  // denominator. Newly created rows are left at zero, like at enroll time.
  staleLectures := map[uuid.UUID]*types.EnrollmentLecture{}
  staleModules := map[uuid.UUID]bool{}

  var newLectures []*types.EnrollmentLecture
  for moduleID, lectures := range tree.Lectures {
    for _, l := range lectures {
      if _, ok := lectureRowIDs[l.ID]; ok {
        continue
      }
      row := &types.EnrollmentLecture{
        ID:                 uuid.New(),
        EnrollmentModuleID: moduleRowIDs[moduleID],
        EnrollmentID:       enrollment.ID,
        LectureID:          l.ID,
        Status:             types.StatusNotStarted,
      }
      lectureRowIDs[l.ID] = row.ID
      newLectures = append(newLectures, row)
      staleModules[row.EnrollmentModuleID] = true
    }
  }
  if _, err := s.lectureRepo.Create(ctx, tx, newLectures); err != nil {
    return fmt.Errorf("create lecture rows: %w", err)
  }
  result.Lectures = len(newLectures)

  lectureRowIDList := make([]uuid.UUID, 0, len(lectureRowIDs))
  for _, id := range lectureRowIDs {
    lectureRowIDList = append(lectureRowIDList, id)
  }
  existingMaterials, err := s.materialRepo.GetByLectureRowIDs(ctx, tx, lectureRowIDList)
  if err != nil {
    return fmt.Errorf("load material rows: %w", err)
  }
  haveMaterial := map[uuid.UUID]bool{}
  for _, m := range existingMaterials {
    haveMaterial[m.MaterialID] = true
  }

  var newMaterials []*types.EnrollmentLectureMaterial
  for lectureID, materials := range tree.Materials {
    for _, m := range materials {
      if haveMaterial[m.ID] {
        continue
      }
      lectureRowID := lectureRowIDs[lectureID]
      newMaterials = append(newMaterials, &types.EnrollmentLectureMaterial{
        ID:                  uuid.New(),
        EnrollmentLectureID: lectureRowID,
        MaterialID:          m.ID,
      })
      if row, ok := lectureRowsByID[lectureRowID]; ok {
        staleLectures[lectureRowID] = row
        staleModules[row.EnrollmentModuleID] = true
      }
    }
  }
  if _, err := s.materialRepo.Create(ctx, tx, newMaterials); err != nil {
    return fmt.Errorf("create material rows: %w", err)
  }
  result.Materials = len(newMaterials)

  eligible, err := s.eligibleCreators(ctx, tx, tree, institutionID)
  if err != nil {
    return err
  }

  existingQuizzes, err := s.quizRepo.GetByEnrollmentID(ctx, tx, enrollment.ID)
  if err != nil {
    return fmt.Errorf("load quiz attempts: %w", err)
  }
  haveQuiz := map[uuid.UUID]bool{}
  for _, q := range existingQuizzes {
    haveQuiz[q.QuizID] = true
  }
  var newQuizzes []*types.EnrollmentQuiz
  for _, q := range tree.Quizzes {
    if haveQuiz[q.ID] || !eligible[q.CreatorID] {
      continue
    }
    newQuizzes = append(newQuizzes, &types.EnrollmentQuiz{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      QuizID:       q.ID,
      ModuleID:     q.ModuleID,
      Status:       types.StatusNotStarted,
    })
  }
  if _, err := s.quizRepo.Create(ctx, tx, newQuizzes); err != nil {
    return fmt.Errorf("create quiz attempts: %w", err)
  }
  result.Quizzes = len(newQuizzes)

  existingExams, err := s.examRepo.GetByEnrollmentID(ctx, tx, enrollment.ID)
  if err != nil {
    return fmt.Errorf("load exam attempts: %w", err)
  }
  haveExam := map[uuid.UUID]bool{}
  for _, e := range existingExams {
    haveExam[e.ExamID] = true
  }
  var newExams []*types.EnrollmentExam
  for _, e := range tree.Exams {
    if haveExam[e.ID] || !eligible[e.CreatorID] {
      continue
    }
    newExams = append(newExams, &types.EnrollmentExam{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      ExamID:       e.ID,
      Status:       types.StatusNotStarted,
    })
  }
  if _, err := s.examRepo.Create(ctx, tx, newExams); err != nil {
    return fmt.Errorf("create exam attempts: %w", err)
  }
  result.Exams = len(newExams)

  existingProjects, err := s.projectRepo.GetByEnrollmentID(ctx, tx, enrollment.ID)
  if err != nil {
    return fmt.Errorf("load project attempts: %w", err)
  }
  haveProject := map[uuid.UUID]bool{}
  for _, p := range existingProjects {
    haveProject[p.ProjectID] = true
  }
  var newProjects []*types.EnrollmentProject
  for _, p := range tree.Projects {
    if haveProject[p.ID] || !eligible[p.CreatorID] {
      continue
    }
    newProjects = append(newProjects, &types.EnrollmentProject{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      ProjectID:    p.ID,
      Status:       types.StatusNotStarted,
    })
  }
  if _, err := s.projectRepo.Create(ctx, tx, newProjects); err != nil {
    return fmt.Errorf("create project attempts: %w", err)
  }
  result.Projects = len(newProjects)

  // New rows grow the denominator, so the cached percentages are stale:
  // refresh the lectures that gained materials, re-average the modules that
  // gained lectures, then rebuild the enrollment total.
  if result.Total() > 0 {
    for _, lecture := range staleLectures {
      if err := s.aggregator.RefreshLecture(ctx, tx, lecture); err != nil {
        return err
      }
    }
    for moduleRowID := range staleModules {
      if err := s.aggregator.RecomputeModule(ctx, tx, moduleRowID); err != nil {
        return err
      }
    }
    if _, err := s.aggregator.RecomputeEnrollment(ctx, tx, enrollment.ID); err != nil {
      return err
    }
  }
  return nil
}

func (s *syncService) eligibleCreators(ctx context.Context, tx *gorm.DB, tree *types.CourseTree, institutionID uuid.UUID) (map[uuid.UUID]bool, error) {
  idSet := map[uuid.UUID]bool{}
  for _, q := range tree.Quizzes {
    idSet[q.CreatorID] = true
  }
  for _, e := range tree.Exams {
    idSet[e.CreatorID] = true
  }
  for _, p := range tree.Projects {
    idSet[p.CreatorID] = true
  }
  ids := make([]uuid.UUID, 0, len(idSet))
  for id := range idSet {
    ids = append(ids, id)
  }
  creators, err := s.userRepo.GetByIDs(ctx, tx, ids)
  if err != nil {
    return nil, fmt.Errorf("load assessment creators: %w", err)
  }
  eligible := map[uuid.UUID]bool{}
  for _, c := range creators {
    if c.InstitutionID == institutionID {
      eligible[c.ID] = true
    }
  }
  return eligible, nil
}

// SyncCourse fans the reconciliation out over every enrollment of a course,
// typically after a trainer publishes new content.
func (s *syncService) SyncCourse(ctx context.Context, actor types.Actor, courseID uuid.UUID) (map[uuid.UUID]*SyncResult, error) {
  if !actor.IsAdmin() {
    if !actor.IsTrainer() {
      return nil, apperr.Authorization("only trainers can sync a course")
    }
    assigned, err := s.contentRepo.TrainerAssignedToCourse(ctx, nil, courseID, actor.ID)
    if err != nil {
      return nil, apperr.Internal(fmt.Errorf("check trainer assignment: %w", err))
    }
    if !assigned {
      return nil, apperr.Authorization("trainer is not assigned to this course")
    }
  }

  enrollments, err := s.enrollmentRepo.GetByCourseID(ctx, nil, courseID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("list course enrollments: %w", err))
  }

  results := make(map[uuid.UUID]*SyncResult, len(enrollments))
  for _, enrollment := range enrollments {
    result, err := s.SyncEnrollment(ctx, enrollment.ID)
    if err != nil {
      // One broken enrollment must not block the rest of the course.
      s.log.Warn("SyncCourse: enrollment skipped", "error", err, "enrollment_id", enrollment.ID)
      continue
    }
    results[enrollment.ID] = result
  }
  return results, nil
}
