package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/cache"
  "github.com/adanepro/spotlightacademy-sub000/internal/db"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/repos"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type testEnv struct {
  db *gorm.DB

  userRepo       repos.UserRepo
  contentRepo    repos.ContentRepo
  enrollmentRepo repos.EnrollmentRepo
  moduleRepo     repos.EnrollmentModuleRepo
  lectureRepo    repos.EnrollmentLectureRepo
  materialRepo   repos.EnrollmentMaterialRepo
  quizRepo       repos.EnrollmentQuizRepo
  examRepo       repos.EnrollmentExamRepo
  projectRepo    repos.EnrollmentProjectRepo
  quizSubRepo    repos.QuizSubmissionRepo
  examSubRepo    repos.ExamSubmissionRepo
  projSubRepo    repos.ProjectSubmissionRepo

  enrollmentSvc EnrollmentService
  submissionSvc SubmissionService
  remedialSvc   RemedialService
  syncSvc       SyncService
}

func newTestEnv(t *testing.T) *testEnv {
  t.Helper()
  gormDB, err := db.OpenTest()
  if err != nil {
    t.Fatalf("open test db: %v", err)
  }
  log := logger.NewNop()

  e := &testEnv{db: gormDB}
  e.userRepo = repos.NewUserRepo(gormDB, log)
  e.contentRepo = repos.NewContentRepo(gormDB, log)
  e.enrollmentRepo = repos.NewEnrollmentRepo(gormDB, log)
  e.moduleRepo = repos.NewEnrollmentModuleRepo(gormDB, log)
  e.lectureRepo = repos.NewEnrollmentLectureRepo(gormDB, log)
  e.materialRepo = repos.NewEnrollmentMaterialRepo(gormDB, log)
  e.quizRepo = repos.NewEnrollmentQuizRepo(gormDB, log)
  e.examRepo = repos.NewEnrollmentExamRepo(gormDB, log)
  e.projectRepo = repos.NewEnrollmentProjectRepo(gormDB, log)
  e.quizSubRepo = repos.NewQuizSubmissionRepo(gormDB, log)
  e.examSubRepo = repos.NewExamSubmissionRepo(gormDB, log)
  e.projSubRepo = repos.NewProjectSubmissionRepo(gormDB, log)

  notificationRepo := repos.NewNotificationRepo(gormDB, log)
  activityLogRepo := repos.NewActivityLogRepo(gormDB, log)
  notifier := NewNotifier(log, notificationRepo)
  audit := NewAuditLog(log, activityLogRepo)

  var progressCache *cache.ProgressCache

  aggregator := NewProgressAggregator(
    gormDB, log,
    e.enrollmentRepo, e.moduleRepo, e.lectureRepo, e.materialRepo,
    e.quizRepo, e.examRepo, e.projectRepo,
    e.quizSubRepo, e.examSubRepo, e.projSubRepo,
    audit,
  )
  e.enrollmentSvc = NewEnrollmentService(
    gormDB, log,
    e.contentRepo, e.userRepo, e.enrollmentRepo,
    e.moduleRepo, e.lectureRepo, e.materialRepo,
    e.quizRepo, e.examRepo, e.projectRepo,
    aggregator, progressCache, audit,
  )
  e.submissionSvc = NewSubmissionService(
    gormDB, log,
    e.contentRepo, e.enrollmentRepo,
    e.quizRepo, e.examRepo, e.projectRepo,
    e.quizSubRepo, e.examSubRepo, e.projSubRepo,
    aggregator, progressCache, notifier, audit,
  )
  e.remedialSvc = NewRemedialService(
    gormDB, log,
    e.contentRepo, e.enrollmentRepo,
    e.quizRepo, e.examRepo, e.projectRepo,
    e.quizSubRepo, e.examSubRepo, e.projSubRepo,
    notifier,
  )
  e.syncSvc = NewSyncService(
    gormDB, log,
    e.contentRepo, e.userRepo, e.enrollmentRepo,
    e.moduleRepo, e.lectureRepo, e.materialRepo,
    e.quizRepo, e.examRepo, e.projectRepo,
    aggregator, progressCache,
  )
  return e
}

func (e *testEnv) createUser(t *testing.T, name, role string, institutionID uuid.UUID) *types.User {
  t.Helper()
  user := &types.User{
    ID:            uuid.New(),
    Name:          name,
    Email:         name + "-" + uuid.NewString()[:8] + "@example.test",
    Role:          role,
    InstitutionID: institutionID,
  }
  if err := e.db.Create(user).Error; err != nil {
    t.Fatalf("create user: %v", err)
  }
  return user
}

func (e *testEnv) createCourse(t *testing.T, trainer *types.User, title string) *types.Course {
  t.Helper()
  course := &types.Course{
    ID:            uuid.New(),
    Title:         title,
    TrainerID:     trainer.ID,
    InstitutionID: trainer.InstitutionID,
  }
  if err := e.db.Create(course).Error; err != nil {
    t.Fatalf("create course: %v", err)
  }
  return course
}

func (e *testEnv) createModule(t *testing.T, course *types.Course, index int) *types.CourseModule {
  t.Helper()
  module := &types.CourseModule{
    ID:       uuid.New(),
    CourseID: course.ID,
    Index:    index,
    Title:    "Module",
  }
  if err := e.db.Create(module).Error; err != nil {
    t.Fatalf("create module: %v", err)
  }
  return module
}

func (e *testEnv) createLecture(t *testing.T, module *types.CourseModule, index int) *types.Lecture {
  t.Helper()
  lecture := &types.Lecture{
    ID:       uuid.New(),
    ModuleID: module.ID,
    Index:    index,
    Title:    "Lecture",
  }
  if err := e.db.Create(lecture).Error; err != nil {
    t.Fatalf("create lecture: %v", err)
  }
  return lecture
}

func (e *testEnv) createMaterial(t *testing.T, lecture *types.Lecture) *types.LectureMaterial {
  t.Helper()
  material := &types.LectureMaterial{
    ID:        uuid.New(),
    LectureID: lecture.ID,
    Title:     "Material",
    FileURL:   "https://files.example.test/" + uuid.NewString(),
  }
  if err := e.db.Create(material).Error; err != nil {
    t.Fatalf("create material: %v", err)
  }
  return material
}

func (e *testEnv) createQuiz(t *testing.T, course *types.Course, module *types.CourseModule, creator *types.User) *types.Quiz {
  t.Helper()
  quiz := &types.Quiz{
    ID:        uuid.New(),
    CourseID:  course.ID,
    ModuleID:  module.ID,
    CreatorID: creator.ID,
    Title:     "Quiz",
  }
  if err := e.db.Create(quiz).Error; err != nil {
    t.Fatalf("create quiz: %v", err)
  }
  return quiz
}

func (e *testEnv) createExam(t *testing.T, course *types.Course, creator *types.User) *types.Exam {
  t.Helper()
  exam := &types.Exam{
    ID:        uuid.New(),
    CourseID:  course.ID,
    CreatorID: creator.ID,
    Title:     "Exam",
  }
  if err := e.db.Create(exam).Error; err != nil {
    t.Fatalf("create exam: %v", err)
  }
  return exam
}

func (e *testEnv) createProject(t *testing.T, course *types.Course, creator *types.User) *types.Project {
  t.Helper()
  project := &types.Project{
    ID:        uuid.New(),
    CourseID:  course.ID,
    CreatorID: creator.ID,
    Title:     "Project",
  }
  if err := e.db.Create(project).Error; err != nil {
    t.Fatalf("create project: %v", err)
  }
  return project
}

func actorFor(u *types.User) types.Actor {
  return types.Actor{ID: u.ID, Role: u.Role, InstitutionID: u.InstitutionID}
}

// quizAttemptFor fetches the snapshot attempt created by Enroll for a quiz.
func (e *testEnv) quizAttemptFor(t *testing.T, enrollmentID, quizID uuid.UUID) *types.EnrollmentQuiz {
  t.Helper()
  attempts, err := e.quizRepo.GetByEnrollmentID(context.Background(), nil, enrollmentID)
  if err != nil {
    t.Fatalf("load quiz attempts: %v", err)
  }
  for _, a := range attempts {
    if a.QuizID == quizID && a.RemedialOf == nil {
      return a
    }
  }
  t.Fatalf("no quiz attempt for quiz %s", quizID)
  return nil
}

func (e *testEnv) examAttemptFor(t *testing.T, enrollmentID, examID uuid.UUID) *types.EnrollmentExam {
  t.Helper()
  attempts, err := e.examRepo.GetByEnrollmentID(context.Background(), nil, enrollmentID)
  if err != nil {
    t.Fatalf("load exam attempts: %v", err)
  }
  for _, a := range attempts {
    if a.ExamID == examID && a.RemedialOf == nil {
      return a
    }
  }
  t.Fatalf("no exam attempt for exam %s", examID)
  return nil
}

func (e *testEnv) projectAttemptFor(t *testing.T, enrollmentID, projectID uuid.UUID) *types.EnrollmentProject {
  t.Helper()
  attempts, err := e.projectRepo.GetByEnrollmentID(context.Background(), nil, enrollmentID)
  if err != nil {
    t.Fatalf("load project attempts: %v", err)
  }
  for _, a := range attempts {
    if a.ProjectID == projectID && a.RemedialOf == nil {
      return a
    }
  }
  t.Fatalf("no project attempt for project %s", projectID)
  return nil
}
