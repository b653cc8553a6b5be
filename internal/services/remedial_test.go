package services

import (
  "context"
  "testing"

  "github.com/google/uuid"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// failQuizAttempt drives an attempt through submit and a failed evaluation.
func (f *submissionFixture) failQuizAttempt(t *testing.T, attemptID uuid.UUID) {
  t.Helper()
  ctx := context.Background()
  if _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attemptID, answers); err != nil {
    t.Fatalf("submit quiz: %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.trainer), attemptID, types.SubmissionFailed, "try again"); err != nil {
    t.Fatalf("fail quiz: %v", err)
  }
}

func TestAssignRemedialCreatesChain(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)
  f.failQuizAttempt(t, attempt.ID)

  result, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(f.trainer), f.quiz.ID, []uuid.UUID{attempt.ID})
  if err != nil {
    t.Fatalf("assign remedial: %v", err)
  }
  if len(result.Created) != 1 || len(result.Skipped) != 0 {
    t.Fatalf("result: created=%d skipped=%d", len(result.Created), len(result.Skipped))
  }

  remedial, _ := f.env.quizRepo.GetByID(ctx, nil, result.Created[0])
  if remedial == nil {
    t.Fatalf("remedial attempt not persisted")
  }
  if remedial.RemedialOf == nil || *remedial.RemedialOf != attempt.ID {
    t.Fatalf("remedial back-reference: want=%s got=%v", attempt.ID, remedial.RemedialOf)
  }
  if remedial.Status != types.StatusNotStarted {
    t.Fatalf("remedial status: want=%q got=%q", types.StatusNotStarted, remedial.Status)
  }
  if remedial.EnrollmentID != f.enrollment.ID {
    t.Fatalf("remedial enrollment: want=%s got=%s", f.enrollment.ID, remedial.EnrollmentID)
  }

  // The original failed attempt row is left untouched.
  original, _ := f.env.quizRepo.GetByID(ctx, nil, attempt.ID)
  if original.Status != types.StatusInProgress {
    t.Fatalf("original attempt status changed: %q", original.Status)
  }
}

func TestAssignRemedialIdempotent(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)
  f.failQuizAttempt(t, attempt.ID)

  first, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(f.trainer), f.quiz.ID, []uuid.UUID{attempt.ID})
  if err != nil {
    t.Fatalf("first assign: %v", err)
  }
  if len(first.Created) != 1 {
    t.Fatalf("first assign created: want=1 got=%d", len(first.Created))
  }

  second, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(f.trainer), f.quiz.ID, []uuid.UUID{attempt.ID})
  if err != nil {
    t.Fatalf("second assign: %v", err)
  }
  if len(second.Created) != 0 || len(second.Skipped) != 1 {
    t.Fatalf("second assign: created=%d skipped=%d", len(second.Created), len(second.Skipped))
  }

  attempts, _ := f.env.quizRepo.GetByEnrollmentID(ctx, nil, f.enrollment.ID)
  if len(attempts) != 2 {
    t.Fatalf("attempt rows: want=2 got=%d", len(attempts))
  }
}

func TestAssignRemedialSkipsUnfailed(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)

  // No submission at all.
  result, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(f.trainer), f.quiz.ID, []uuid.UUID{attempt.ID})
  if err != nil {
    t.Fatalf("assign: %v", err)
  }
  if len(result.Created) != 0 || len(result.Skipped) != 1 {
    t.Fatalf("result: created=%d skipped=%d", len(result.Created), len(result.Skipped))
  }

  // Passed submission is not remediable either.
  if _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), attempt.ID, answers); err != nil {
    t.Fatalf("submit: %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.trainer), attempt.ID, types.SubmissionPassed, ""); err != nil {
    t.Fatalf("pass: %v", err)
  }
  result, err = f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(f.trainer), f.quiz.ID, []uuid.UUID{attempt.ID})
  if err != nil {
    t.Fatalf("assign after pass: %v", err)
  }
  if len(result.Created) != 0 || len(result.Skipped) != 1 {
    t.Fatalf("result after pass: created=%d skipped=%d", len(result.Created), len(result.Skipped))
  }
}

func TestAssignRemedialSkipsForeignAttempt(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  otherQuiz := f.env.createQuiz(t, f.course, f.module, f.trainer)
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)
  f.failQuizAttempt(t, attempt.ID)

  // Attempt belongs to a different quiz than the one being remediated.
  result, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(f.trainer), otherQuiz.ID, []uuid.UUID{attempt.ID})
  if err != nil {
    t.Fatalf("assign: %v", err)
  }
  if len(result.Created) != 0 || len(result.Skipped) != 1 {
    t.Fatalf("result: created=%d skipped=%d", len(result.Created), len(result.Skipped))
  }
}

func TestAssignRemedialAuthorization(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  other := f.env.createUser(t, "other", types.RoleTrainer, f.trainer.InstitutionID)
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)
  f.failQuizAttempt(t, attempt.ID)

  _, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(other), f.quiz.ID, []uuid.UUID{attempt.ID})
  if !apperr.Is(err, apperr.KindAuthorization) {
    t.Fatalf("non-creator trainer: want authorization error, got %v", err)
  }

  admin := f.env.createUser(t, "admin", types.RoleAdmin, f.trainer.InstitutionID)
  result, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(admin), f.quiz.ID, []uuid.UUID{attempt.ID})
  if err != nil {
    t.Fatalf("admin assign: %v", err)
  }
  if len(result.Created) != 1 {
    t.Fatalf("admin assign created: want=1 got=%d", len(result.Created))
  }
}

func TestAssignRemedialUnknownQuiz(t *testing.T) {
  f := newSubmissionFixture(t)
  _, err := f.env.remedialSvc.AssignRemedialQuiz(context.Background(), actorFor(f.trainer), uuid.New(), nil)
  if !apperr.Is(err, apperr.KindNotFound) {
    t.Fatalf("want not found error, got %v", err)
  }
}

func TestRemedialAttemptCountsInDenominator(t *testing.T) {
  f := newSubmissionFixture(t)
  ctx := context.Background()
  attempt := f.env.quizAttemptFor(t, f.enrollment.ID, f.quiz.ID)
  f.failQuizAttempt(t, attempt.ID)

  before, _ := f.env.enrollmentRepo.GetByID(ctx, nil, f.enrollment.ID)

  if _, err := f.env.remedialSvc.AssignRemedialQuiz(ctx, actorFor(f.trainer), f.quiz.ID, []uuid.UUID{attempt.ID}); err != nil {
    t.Fatalf("assign: %v", err)
  }
  if _, err := f.env.syncSvc.SyncEnrollment(ctx, f.enrollment.ID); err != nil {
    t.Fatalf("sync: %v", err)
  }

  // Passing the remedial brings the enrollment further than before.
  attempts, _ := f.env.quizRepo.GetByEnrollmentID(ctx, nil, f.enrollment.ID)
  var remedial *types.EnrollmentQuiz
  for _, a := range attempts {
    if a.RemedialOf != nil {
      remedial = a
    }
  }
  if remedial == nil {
    t.Fatalf("remedial attempt missing")
  }
  if _, err := f.env.submissionSvc.SubmitQuiz(ctx, actorFor(f.student), remedial.ID, answers); err != nil {
    t.Fatalf("submit remedial: %v", err)
  }
  if _, err := f.env.submissionSvc.EvaluateQuiz(ctx, actorFor(f.trainer), remedial.ID, types.SubmissionPassed, ""); err != nil {
    t.Fatalf("pass remedial: %v", err)
  }

  after, _ := f.env.enrollmentRepo.GetByID(ctx, nil, f.enrollment.ID)
  if after.Progress <= before.Progress {
    t.Fatalf("progress should rise after passing remedial: before=%v after=%v", before.Progress, after.Progress)
  }
}
