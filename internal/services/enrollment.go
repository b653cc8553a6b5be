package services

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/cache"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/repos"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type EnrollmentService interface {
  Enroll(ctx context.Context, actor types.Actor, courseID uuid.UUID) (*types.Enrollment, error)
  ListEnrollments(ctx context.Context, actor types.Actor) ([]*types.Enrollment, error)
  GetProgress(ctx context.Context, actor types.Actor, enrollmentID uuid.UUID) (float64, error)
  WatchLecture(ctx context.Context, actor types.Actor, enrollmentID, lectureID uuid.UUID) (*types.EnrollmentLecture, error)
  ViewMaterial(ctx context.Context, actor types.Actor, enrollmentID, materialID uuid.UUID) (*types.EnrollmentLectureMaterial, error)
  DownloadMaterial(ctx context.Context, actor types.Actor, enrollmentID, materialID uuid.UUID) (*types.EnrollmentLectureMaterial, error)
}

type enrollmentService struct {
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
  audit          AuditLog
}

func NewEnrollmentService(
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
  audit AuditLog,
) EnrollmentService {
  return &enrollmentService{
    db:             db,
    log:            baseLog.With("service", "EnrollmentService"),
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
    audit:          audit,
  }
}

// Enroll materializes the student's private snapshot of the course content
// tree in one transaction. The (student, course) unique index backstops the
// existence check against concurrent enrolls.
func (s *enrollmentService) Enroll(ctx context.Context, actor types.Actor, courseID uuid.UUID) (*types.Enrollment, error) {
  if !actor.IsStudent() {
    return nil, apperr.Authorization("only students can enroll in a course")
  }
  if courseID == uuid.Nil {
    return nil, apperr.Validation("course id is required")
  }

  existing, err := s.enrollmentRepo.GetByStudentAndCourse(ctx, nil, actor.ID, courseID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("check existing enrollment: %w", err))
  }
  if existing != nil {
    return nil, apperr.Duplicate("already enrolled in this course")
  }

  tree, err := s.contentRepo.LoadCourseTree(ctx, nil, courseID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load course tree: %w", err))
  }
  if tree == nil {
    return nil, apperr.NotFound("course not found")
  }
  if len(tree.Modules) == 0 {
    return nil, apperr.EmptyCourse("course has no modules")
  }

  eligible, err := s.eligibleCreators(ctx, tree, actor.InstitutionID)
  if err != nil {
    return nil, apperr.Internal(err)
  }

  now := time.Now().UTC()
  enrollment := &types.Enrollment{
    ID:        uuid.New(),
    StudentID: actor.ID,
    CourseID:  courseID,
    Status:    types.EnrollmentInProgress,
    Progress:  0,
    StartedAt: now,
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.enrollmentRepo.Create(ctx, tx, enrollment); err != nil {
      return err
    }
    return s.buildSnapshot(ctx, tx, enrollment, tree, eligible)
  })
  if err != nil {
    if errors.Is(err, gorm.ErrDuplicatedKey) {
      return nil, apperr.Conflict("concurrent enrollment detected")
    }
    s.log.Error("Enroll failed", "error", err, "course_id", courseID)
    return nil, apperr.Internal(fmt.Errorf("build enrollment snapshot: %w", err))
  }

  s.audit.Record(ctx, actor.ID, courseID,
    fmt.Sprintf("%s started learning %s", s.displayName(ctx, actor.ID), tree.Course.Title),
    map[string]interface{}{"enrollment_id": enrollment.ID.String()})

  return enrollment, nil
}

// eligibleCreators resolves which assessment creators belong to the
// student's institution. Assessments by out-of-institution trainers are not
// snapshotted.
func (s *enrollmentService) eligibleCreators(ctx context.Context, tree *types.CourseTree, institutionID uuid.UUID) (map[uuid.UUID]bool, error) {
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
  creators, err := s.userRepo.GetByIDs(ctx, nil, ids)
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

func (s *enrollmentService) buildSnapshot(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment, tree *types.CourseTree, eligible map[uuid.UUID]bool) error {
  moduleRowIDs := map[uuid.UUID]uuid.UUID{} // module id -> snapshot row id

  moduleRows := make([]*types.EnrollmentModule, 0, len(tree.Modules))
  for _, m := range tree.Modules {
    row := &types.EnrollmentModule{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      ModuleID:     m.ID,
      Status:       types.StatusNotStarted,
    }
    moduleRowIDs[m.ID] = row.ID
    moduleRows = append(moduleRows, row)
  }
  if _, err := s.moduleRepo.Create(ctx, tx, moduleRows); err != nil {
    return fmt.Errorf("create module rows: %w", err)
  }

  lectureRowIDs := map[uuid.UUID]uuid.UUID{} // lecture id -> snapshot row id
  var lectureRows []*types.EnrollmentLecture
  for moduleID, lectures := range tree.Lectures {
    for _, l := range lectures {
      row := &types.EnrollmentLecture{
        ID:                 uuid.New(),
        EnrollmentModuleID: moduleRowIDs[moduleID],
        EnrollmentID:       enrollment.ID,
        LectureID:          l.ID,
        Status:             types.StatusNotStarted,
      }
      lectureRowIDs[l.ID] = row.ID
      lectureRows = append(lectureRows, row)
    }
  }
  if _, err := s.lectureRepo.Create(ctx, tx, lectureRows); err != nil {
    return fmt.Errorf("create lecture rows: %w", err)
  }

  var materialRows []*types.EnrollmentLectureMaterial
  for lectureID, materials := range tree.Materials {
    for _, m := range materials {
      materialRows = append(materialRows, &types.EnrollmentLectureMaterial{
        ID:                  uuid.New(),
        EnrollmentLectureID: lectureRowIDs[lectureID],
        MaterialID:          m.ID,
      })
    }
  }
  if _, err := s.materialRepo.Create(ctx, tx, materialRows); err != nil {
    return fmt.Errorf("create material rows: %w", err)
  }

  var quizRows []*types.EnrollmentQuiz
  for _, q := range tree.Quizzes {
    if !eligible[q.CreatorID] {
      continue
    }
    quizRows = append(quizRows, &types.EnrollmentQuiz{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      QuizID:       q.ID,
      ModuleID:     q.ModuleID,
      Status:       types.StatusNotStarted,
    })
  }
  if _, err := s.quizRepo.Create(ctx, tx, quizRows); err != nil {
    return fmt.Errorf("create quiz attempts: %w", err)
  }

  var examRows []*types.EnrollmentExam
  for _, e := range tree.Exams {
    if !eligible[e.CreatorID] {
      continue
    }
    examRows = append(examRows, &types.EnrollmentExam{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      ExamID:       e.ID,
      Status:       types.StatusNotStarted,
    })
  }
  if _, err := s.examRepo.Create(ctx, tx, examRows); err != nil {
    return fmt.Errorf("create exam attempts: %w", err)
  }

  var projectRows []*types.EnrollmentProject
  for _, p := range tree.Projects {
    if !eligible[p.CreatorID] {
      continue
    }
    projectRows = append(projectRows, &types.EnrollmentProject{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      ProjectID:    p.ID,
      Status:       types.StatusNotStarted,
    })
  }
  if _, err := s.projectRepo.Create(ctx, tx, projectRows); err != nil {
    return fmt.Errorf("create project attempts: %w", err)
  }
  return nil
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, actor types.Actor) ([]*types.Enrollment, error) {
  rows, err := s.enrollmentRepo.GetByStudentID(ctx, nil, actor.ID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("list enrollments: %w", err))
  }
  return rows, nil
}

func (s *enrollmentService) GetProgress(ctx context.Context, actor types.Actor, enrollmentID uuid.UUID) (float64, error) {
  if progress, ok := s.progressCache.Get(ctx, enrollmentID); ok {
    if _, err := s.authorizeRead(ctx, actor, enrollmentID); err != nil {
      return 0, err
    }
    return progress, nil
  }

  enrollment, err := s.authorizeRead(ctx, actor, enrollmentID)
  if err != nil {
    return 0, err
  }
  s.progressCache.Set(ctx, enrollmentID, enrollment.Progress)
  return enrollment.Progress, nil
}

// authorizeRead loads the enrollment and checks the actor may read it: the
// owning student, a trainer assigned to the course, or an admin.
func (s *enrollmentService) authorizeRead(ctx context.Context, actor types.Actor, enrollmentID uuid.UUID) (*types.Enrollment, error) {
  enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load enrollment: %w", err))
  }
  if enrollment == nil {
    return nil, apperr.NotFound("enrollment not found")
  }
  if enrollment.StudentID == actor.ID || actor.IsAdmin() {
    return enrollment, nil
  }
  if actor.IsTrainer() {
    assigned, err := s.contentRepo.TrainerAssignedToCourse(ctx, nil, enrollment.CourseID, actor.ID)
    if err != nil {
      return nil, apperr.Internal(fmt.Errorf("check trainer assignment: %w", err))
    }
    if assigned {
      return enrollment, nil
    }
  }
  return nil, apperr.Authorization("not allowed to read this enrollment")
}

func (s *enrollmentService) ownedEnrollment(ctx context.Context, actor types.Actor, enrollmentID uuid.UUID) (*types.Enrollment, error) {
  enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load enrollment: %w", err))
  }
  if enrollment == nil {
    return nil, apperr.NotFound("enrollment not found")
  }
  if enrollment.StudentID != actor.ID {
    return nil, apperr.Authorization("enrollment belongs to another student")
  }
  return enrollment, nil
}

func (s *enrollmentService) WatchLecture(ctx context.Context, actor types.Actor, enrollmentID, lectureID uuid.UUID) (*types.EnrollmentLecture, error) {
  if _, err := s.ownedEnrollment(ctx, actor, enrollmentID); err != nil {
    return nil, err
  }

  row, err := s.lectureRepo.GetByEnrollmentAndLecture(ctx, nil, enrollmentID, lectureID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load lecture row: %w", err))
  }
  if row == nil {
    return nil, apperr.NotFound("lecture not part of this enrollment")
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    row.IsWatched = true
    return s.aggregator.RecomputeLecture(ctx, tx, row)
  })
  if err != nil {
    s.log.Error("WatchLecture failed", "error", err, "enrollment_id", enrollmentID, "lecture_id", lectureID)
    return nil, apperr.Internal(err)
  }
  s.progressCache.Invalidate(ctx, enrollmentID)
  return row, nil
}

func (s *enrollmentService) ViewMaterial(ctx context.Context, actor types.Actor, enrollmentID, materialID uuid.UUID) (*types.EnrollmentLectureMaterial, error) {
  return s.markMaterial(ctx, actor, enrollmentID, materialID, false)
}

func (s *enrollmentService) DownloadMaterial(ctx context.Context, actor types.Actor, enrollmentID, materialID uuid.UUID) (*types.EnrollmentLectureMaterial, error) {
  return s.markMaterial(ctx, actor, enrollmentID, materialID, true)
}

func (s *enrollmentService) markMaterial(ctx context.Context, actor types.Actor, enrollmentID, materialID uuid.UUID, download bool) (*types.EnrollmentLectureMaterial, error) {
  if _, err := s.ownedEnrollment(ctx, actor, enrollmentID); err != nil {
    return nil, err
  }

  row, err := s.materialRepo.GetByEnrollmentAndMaterial(ctx, nil, enrollmentID, materialID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load material row: %w", err))
  }
  if row == nil {
    return nil, apperr.NotFound("material not part of this enrollment")
  }

  lecture, err := s.lectureRepo.GetByID(ctx, nil, row.EnrollmentLectureID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load owning lecture row: %w", err))
  }
  if lecture == nil {
    return nil, apperr.NotFound("lecture row missing for material")
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if download {
      row.IsDownloaded = true
    } else {
      row.IsViewed = true
    }
    if err := s.materialRepo.Save(ctx, tx, row); err != nil {
      return fmt.Errorf("save material row: %w", err)
    }
    return s.aggregator.RecomputeLecture(ctx, tx, lecture)
  })
  if err != nil {
    s.log.Error("markMaterial failed", "error", err, "enrollment_id", enrollmentID, "material_id", materialID)
    return nil, apperr.Internal(err)
  }
  s.progressCache.Invalidate(ctx, enrollmentID)
  return row, nil
}

func (s *enrollmentService) displayName(ctx context.Context, userID uuid.UUID) string {
  user, err := s.userRepo.GetByID(ctx, nil, userID)
  if err != nil || user == nil {
    return userID.String()
  }
  return user.Name
}
