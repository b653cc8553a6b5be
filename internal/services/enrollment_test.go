package services

import (
  "context"
  "testing"

  "github.com/google/uuid"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

func TestEnrollOnlyStudents(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  course := e.createCourse(t, trainer, "Go Basics")
  e.createModule(t, course, 0)

  _, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(trainer), course.ID)
  if !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("want authorization error, got %v", err)
  }
}

func TestEnrollUnknownCourse(t *testing.T) {
  e := newTestEnv(t)
  student := e.createUser(t, "student", types.RoleStudent, uuid.New())

  _, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(student), uuid.New())
  if !apperr.Is(err, apperr.KindNotFound) {
    t.Fatalf("want not found error, got %v", err)
  }
}

func TestEnrollEmptyCourse(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Empty Course")

  _, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(student), course.ID)
  if !apperr.Is(err, apperr.KindEmptyCourse) {
    t.Fatalf("want empty course error, got %v", err)
  }

  rows, err := e.enrollmentRepo.GetByStudentID(context.Background(), nil, student.ID)
  if err != nil {
    t.Fatalf("list enrollments: %v", err)
  }
  if len(rows) != 0 {
    t.Fatalf("no enrollment row expected, got %d", len(rows))
  }
}

func TestEnrollSnapshotCounts(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Full Course")

  m1 := e.createModule(t, course, 0)
  m2 := e.createModule(t, course, 1)
  l1 := e.createLecture(t, m1, 0)
  e.createLecture(t, m1, 1)
  e.createLecture(t, m2, 0)
  e.createMaterial(t, l1)
  e.createMaterial(t, l1)
  e.createQuiz(t, course, m1, trainer)
  e.createExam(t, course, trainer)
  e.createProject(t, course, trainer)

  enrollment, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }
  if enrollment.Status != types.EnrollmentInProgress {
    t.Fatalf("status: want=%q got=%q", types.EnrollmentInProgress, enrollment.Status)
  }
  if enrollment.Progress != 0 {
    t.Fatalf("fresh enrollment progress: want=0 got=%v", enrollment.Progress)
  }

  ctx := context.Background()
  modules, _ := e.moduleRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(modules) != 2 {
    t.Fatalf("module rows: want=2 got=%d", len(modules))
  }
  lectures, _ := e.lectureRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(lectures) != 3 {
    t.Fatalf("lecture rows: want=3 got=%d", len(lectures))
  }
  for _, l := range lectures {
    if l.Status != types.StatusNotStarted || l.IsWatched {
      t.Fatalf("fresh lecture row mutated: %+v", l)
    }
  }
  quizzes, _ := e.quizRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(quizzes) != 1 {
    t.Fatalf("quiz attempts: want=1 got=%d", len(quizzes))
  }
  exams, _ := e.examRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(exams) != 1 {
    t.Fatalf("exam attempts: want=1 got=%d", len(exams))
  }
  projects, _ := e.projectRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(projects) != 1 {
    t.Fatalf("project attempts: want=1 got=%d", len(projects))
  }
}

func TestEnrollDuplicate(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  e.createModule(t, course, 0)

  if _, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(student), course.ID); err != nil {
    t.Fatalf("first enroll: %v", err)
  }
  _, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(student), course.ID)
  if !apperr.Is(err, apperr.KindDuplicate) {
    t.Fatalf("want duplicate error, got %v", err)
  }
}

func TestEnrollFiltersOutOfInstitutionAssessments(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  outsider := e.createUser(t, "outsider", types.RoleTrainer, uuid.New())
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  module := e.createModule(t, course, 0)
  e.createLecture(t, module, 0)
  e.createQuiz(t, course, module, trainer)
  e.createQuiz(t, course, module, outsider)
  e.createExam(t, course, outsider)

  enrollment, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }

  ctx := context.Background()
  quizzes, _ := e.quizRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(quizzes) != 1 {
    t.Fatalf("quiz attempts: want=1 got=%d", len(quizzes))
  }
  exams, _ := e.examRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(exams) != 0 {
    t.Fatalf("exam attempts: want=0 got=%d", len(exams))
  }
  lectures, _ := e.lectureRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if len(lectures) != 1 {
    t.Fatalf("lecture rows are institution-independent: want=1 got=%d", len(lectures))
  }
}

func TestWatchLectureCascades(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  module := e.createModule(t, course, 0)
  lectureA := e.createLecture(t, module, 0)
  e.createLecture(t, module, 1)
  e.createQuiz(t, course, module, trainer)

  ctx := context.Background()
  enrollment, err := e.enrollmentSvc.Enroll(ctx, actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }

  row, err := e.enrollmentSvc.WatchLecture(ctx, actorFor(student), enrollment.ID, lectureA.ID)
  if err != nil {
    t.Fatalf("watch lecture: %v", err)
  }
  if !row.IsWatched || row.Progress != 100 || row.Status != types.StatusCompleted {
    t.Fatalf("lecture row after watch: %+v", row)
  }

  modules, _ := e.moduleRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if modules[0].Progress != 50 {
    t.Fatalf("module progress: want=50 got=%v", modules[0].Progress)
  }
  reloaded, _ := e.enrollmentRepo.GetByID(ctx, nil, enrollment.ID)
  if reloaded.Progress != 37.5 {
    t.Fatalf("enrollment progress: want=37.5 got=%v", reloaded.Progress)
  }

  // Watching again must not change anything.
  if _, err := e.enrollmentSvc.WatchLecture(ctx, actorFor(student), enrollment.ID, lectureA.ID); err != nil {
    t.Fatalf("repeat watch: %v", err)
  }
  reloaded, _ = e.enrollmentRepo.GetByID(ctx, nil, enrollment.ID)
  if reloaded.Progress != 37.5 {
    t.Fatalf("enrollment progress after repeat: want=37.5 got=%v", reloaded.Progress)
  }
}

func TestMaterialConsumption(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  module := e.createModule(t, course, 0)
  lecture := e.createLecture(t, module, 0)
  m1 := e.createMaterial(t, lecture)
  m2 := e.createMaterial(t, lecture)
  e.createMaterial(t, lecture)
  e.createMaterial(t, lecture)

  ctx := context.Background()
  enrollment, err := e.enrollmentSvc.Enroll(ctx, actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }

  if _, err := e.enrollmentSvc.ViewMaterial(ctx, actorFor(student), enrollment.ID, m1.ID); err != nil {
    t.Fatalf("view material: %v", err)
  }
  if _, err := e.enrollmentSvc.DownloadMaterial(ctx, actorFor(student), enrollment.ID, m2.ID); err != nil {
    t.Fatalf("download material: %v", err)
  }

  lectures, _ := e.lectureRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if lectures[0].Progress != 25 {
    t.Fatalf("lecture progress: want=25 got=%v", lectures[0].Progress)
  }
  if lectures[0].Status != types.StatusInProgress {
    t.Fatalf("lecture status: want=%q got=%q", types.StatusInProgress, lectures[0].Status)
  }

  // Viewing an already viewed material is a no-op for the percentage.
  if _, err := e.enrollmentSvc.ViewMaterial(ctx, actorFor(student), enrollment.ID, m1.ID); err != nil {
    t.Fatalf("repeat view: %v", err)
  }
  lectures, _ = e.lectureRepo.GetByEnrollmentID(ctx, nil, enrollment.ID)
  if lectures[0].Progress != 25 {
    t.Fatalf("lecture progress after repeat: want=25 got=%v", lectures[0].Progress)
  }
}

func TestWatchLectureForeignStudent(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  other := e.createUser(t, "other", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  module := e.createModule(t, course, 0)
  lecture := e.createLecture(t, module, 0)

  ctx := context.Background()
  enrollment, err := e.enrollmentSvc.Enroll(ctx, actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }

  _, err = e.enrollmentSvc.WatchLecture(ctx, actorFor(other), enrollment.ID, lecture.ID)
  if !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("want authorization error, got %v", err)
  }
}

func TestGetProgressAuthorization(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  unassigned := e.createUser(t, "unassigned", types.RoleTrainer, institution)
  admin := e.createUser(t, "admin", types.RoleAdmin, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  other := e.createUser(t, "other", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  e.createModule(t, course, 0)

  ctx := context.Background()
  enrollment, err := e.enrollmentSvc.Enroll(ctx, actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }

  if _, err := e.enrollmentSvc.GetProgress(ctx, actorFor(student), enrollment.ID); err != nil {
    t.Fatalf("owner read: %v", err)
  }
  if _, err := e.enrollmentSvc.GetProgress(ctx, actorFor(trainer), enrollment.ID); err != nil {
    t.Fatalf("course owner read: %v", err)
  }
  if _, err := e.enrollmentSvc.GetProgress(ctx, actorFor(admin), enrollment.ID); err != nil {
    t.Fatalf("admin read: %v", err)
  }
  if _, err := e.enrollmentSvc.GetProgress(ctx, actorFor(other), enrollment.ID); !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("foreign student read: want authorization error, got %v", err)
  }
  if _, err := e.enrollmentSvc.GetProgress(ctx, actorFor(unassigned), enrollment.ID); !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("unassigned trainer read: want authorization error, got %v", err)
  }
}
