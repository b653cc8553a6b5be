package services

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type submissionFixture struct {
  env        *testEnv
  trainer    *types.User
  student    *types.User
  course     *types.Course
  module     *types.CourseModule
  quiz       *types.Quiz
  exam       *types.Exam
  project    *types.Project
  enrollment *types.Enrollment
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
  t.Helper()
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  module := e.createModule(t, course, 0)
  e.createLecture(t, module, 0)
  quiz := e.createQuiz(t, course, module, trainer)
  exam := e.createExam(t, course, trainer)
  project := e.createProject(t, course, trainer)

  enrollment, err := e.enrollmentSvc.Enroll(context.Background(), actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }
  return &submissionFixture{
    env:        e,
    trainer:    trainer,
    student:    student,
    course:     course,
    module:     module,
    quiz:       quiz,
    exam:       exam,
    project:    project,
    enrollment: enrollment,
  }
}

var answers = datatypes.JSON([]byte(`{"q1":"a"}`))

func TestSubmitQuizStartsAttempt(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  submission, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers)
  if err != nil {
    t.Fatalf("submit quiz: %v", err)
  }
  if submission.Status != types.SubmissionSubmitted {
    t.Fatalf("submission status: want=%q got=%q", types.SubmissionSubmitted, submission.Status)
  }

  reloaded, _ := f.env.quizRepo.GetByID(ctx, nil, attempt.ID)
  if reloaded.Status != types.StatusInProgress {
    t.Fatalf("attempt status: want=%q got=%q", types.StatusInProgress, reloaded.Status)
  }
  if reloaded.StartedAt == nil {
    t.Fatalf("attempt StartedAt not set")
  }
}

func TestSubmitQuizForeignStudent(t *testing.T) {
  f := newSubmissionFixture(t)
  other := f.env.createUser(t, "other", types.RoleStudent, f.student.InstitutionID)
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  _, err := f.env.submissionSvc.SubmitQuiz(context.Background(), actorFor(other), attempt.ID, answers)
  if !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("want authorization error, got %v", err)
  }
}

func TestSubmitQuizOverwritesPending(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  first, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers)
  if err != nil {
    t.Fatalf("first submit: %v", err)
  }
  second, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, datatypes.JSON([]byte(`{"q1":"b"}`)))
  if err != nil {
    t.Fatalf("second submit: %v", err)
  }
  if first.ID != second.ID {
    t.Fatalf("resubmit must overwrite in place: %s vs %s", first.ID, second.ID)
  }

  all, _ := f.env.quizSubRepo.GetByAttemptIDs(ctx, nil, []uuid.UUID{attempt.ID})
  if len(all) != 1 {
    t.Fatalf("submission rows: want=1 got=%d", len(all))
  }
}

func TestSubmitExamOneShot(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.examAttemptFor(t, f.enrollment.ID, f.exam.ID)

  if _, err := f.env.submissionSvc.SubmitExam(ctx, actorFor(f.student), attempt.ID, answers); err != nil {
    t.Fatalf("first submit: %v", err)
  }
  _, err := f.env.submissionSvc.SubmitExam(ctx, actorFor(f.student), attempt.ID, answers)
  if !apperr.Is(err, apperr.KindDuplicate) {
    t.Fatalf("want duplicate error, got %v", err)
  }
}

func TestSubmitExamOutsideWindow(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()

  closed := time.Now().UTC().Add(-time.Hour)
  f.exam.ClosesAt = &closed
  if err := f.env.db.Save(f.exam).Error; err != nil {
    t.Fatalf("close exam window: %v", err)
  }

  attempt := f.env.examAttemptFor(t, f.enrollment.ID, f.exam.ID)
  _, err := f.env.submissionSvc.SubmitExam(ctx, actorFor(f.student), attempt.ID, answers)
  if !apperr.Is(err, apperr.KindValidation) {
    t.Fatalf("want validation error, got %v", err)
  }
}

func TestSubmitProjectNeedsPayload(t *testing.T) {
  f := newSubmissionFixture(t)
  attempt := f.env.projectAttemptFor(t, f.enrollment.ID, f.project.ID)

  _, err := f.env.submissionSvc.SubmitProject(context.Background(), actorFor(f.student), attempt.ID, ProjectPayload{})
  if !apperr.Is(err, apperr.KindValidation) {
    t.Fatalf("want validation error, got %v", err)
  }
}

func TestSubmitWhileInReview(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  if _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers); err != nil {
    t.Fatalf("submit: %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.trainer), attempt.ID, types.SubmissionInReview, ""); err != nil {
    t.Fatalf("move to review: %v", err)
  }
  _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers)
  if !apperr.Is(err, apperr.KindConflict) {
    t.Fatalf("want conflict error, got %v", err)
  }
}

func TestEvaluatePassCompletesAttempt(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  before, _ := f.env.enrollmentRepo.GetByID(ctx, nil, f.enrollment.ID)

  if _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers); err != nil {
    t.Fatalf("submit: %v", err)
  }
  submission, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.trainer), attempt.ID, types.SubmissionPassed, "well done")
  if err != nil {
    t.Fatalf("evaluate: %v", err)
  }
  if submission.Status != types.SubmissionPassed {
    t.Fatalf("submission status: want=%q got=%q", types.SubmissionPassed, submission.Status)
  }
  if submission.ReviewComments != "well done" {
    t.Fatalf("review comments: want=%q got=%q", "well done", submission.ReviewComments)
  }

  reloaded, _ := f.env.quizRepo.GetByID(ctx, nil, attempt.ID)
  if reloaded.Status != types.StatusCompleted || reloaded.Progress != 100 || reloaded.CompletedAt == nil {
    t.Fatalf("attempt after pass: %+v", reloaded)
  }

  after, _ := f.env.enrollmentRepo.GetByID(ctx, nil, f.enrollment.ID)
  if after.Progress <= before.Progress {
    t.Fatalf("enrollment progress did not increase: before=%v after=%v", before.Progress, after.Progress)
  }
}

func TestEvaluatePassedIsFinal(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  if _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers); err != nil {
    t.Fatalf("submit: %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.trainer), attempt.ID, types.SubmissionPassed, ""); err != nil {
    t.Fatalf("pass: %v", err)
  }
  _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.trainer), attempt.ID, types.SubmissionFailed, "")
  if !apperr.Is(err, apperr.KindValidation) {
    t.Fatalf("re-grading a passed submission: want validation error, got %v", err)
  }
}

func TestEvaluateAuthorization(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  unassigned := f.env.createUser(t, "unassigned", types.RoleTrainer, f.trainer.InstitutionID)
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  if _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers); err != nil {
    t.Fatalf("submit: %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(unassigned), attempt.ID, types.SubmissionPassed, ""); !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("unassigned trainer: want authorization error, got %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.student), attempt.ID, types.SubmissionPassed, ""); !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("student: want authorization error, got %v", err)
  }
}

func TestEvaluateInvalidStatus(t *testing.T) {
  f := newSubmissionFixture(t)
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  _, err := f.env.submissionSvc.EvaluateQuiz(context.Background(), actorFor(f.trainer), attempt.ID, "submitted", "")
  if !apperr.Is(err, apperr.KindValidation) {
    t.Fatalf("want validation error, got %v", err)
  }
}

func TestResubmitAfterFail(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.projectAttemptFor(t, f.enrollment.ID, f.project.ID)
  payload := ProjectPayload{Link: "https://git.example.test/work"}

  if _, err := f.env.submissionSvc.SubmitProject(ctx, actorFor(f.student), attempt.ID, payload); err != nil {
    t.Fatalf("submit: %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateProject(ctx, actorFor(f.trainer), attempt.ID, types.SubmissionFailed, "missing tests"); err != nil {
    t.Fatalf("fail: %v", err)
  }

  resubmitted, err := f.env.submissionSvc.SubmitProject(ctx, actorFor(f.student), attempt.ID, ProjectPayload{Link: "https://git.example.test/work2"})
  if err != nil {
    t.Fatalf("resubmit after fail: %v", err)
  }
  if resubmitted.Status != types.SubmissionSubmitted {
    t.Fatalf("resubmitted status: want=%q got=%q", types.SubmissionSubmitted, resubmitted.Status)
  }
  if resubmitted.ReviewComments != "" {
    t.Fatalf("review comments should reset on resubmit, got %q", resubmitted.ReviewComments)
  }

  reloaded, _ := f.env.projectRepo.GetByID(ctx, nil, attempt.ID)
  if reloaded.Status != types.StatusInProgress {
    t.Fatalf("attempt stays in_progress on resubmit, got %q", reloaded.Status)
  }
}

func TestEnrollmentCompletesWhenEverythingPasses(t *testing.T) {
  e := newTestEnv(t)
  institution := uuid.New()
  trainer := e.createUser(t, "trainer", types.RoleTrainer, institution)
  student := e.createUser(t, "student", types.RoleStudent, institution)
  course := e.createCourse(t, trainer, "Course")
  module := e.createModule(t, course, 0)
  lecture := e.createLecture(t, module, 0)
  quiz := e.createQuiz(t, course, module, trainer)

  ctx := context.Background()
  enrollment, err := e.enrollmentSvc.Enroll(ctx, actorFor(student), course.ID)
  if err != nil {
    t.Fatalf("enroll: %v", err)
  }

  if _, err := e.enrollmentSvc.WatchLecture(ctx, actorFor(student), enrollment.ID, lecture.ID); err != nil {
    t.Fatalf("watch: %v", err)
  }
  attempt := e.quizAttemptFor(t, enrollment.ID, quiz.ID)
  if _, err := e.submissionSvc.SubmitQuiz(ctx, actorFor(student), attempt.ID, answers); err != nil {
    t.Fatalf("submit: %v", err)
  }
  if _, err := e.submissionSvc.EvaluateQuiz(ctx, actorFor(trainer), attempt.ID, types.SubmissionPassed, ""); err != nil {
    t.Fatalf("pass: %v", err)
  }

  reloaded, _ := e.enrollmentRepo.GetByID(ctx, nil, enrollment.ID)
  if reloaded.Progress != 100 {
    t.Fatalf("enrollment progress: want=100 got=%v", reloaded.Progress)
  }
  if reloaded.Status != types.EnrollmentCompleted {
    t.Fatalf("enrollment status: want=%q got=%q", types.EnrollmentCompleted, reloaded.Status)
  }
  if reloaded.CompletedAt == nil {
    t.Fatalf("enrollment CompletedAt not set")
  }
}
