package services

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/cache"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/repos"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// ProjectPayload carries the opaque artifact handles of a project
// submission. Storage mechanics live elsewhere.
type ProjectPayload struct {
  Link    string
  FileURL string
}

type SubmissionService interface {
  SubmitQuiz(ctx context.Context, actor types.Actor, attemptID uuid.UUID, answers datatypes.JSON) (*types.QuizSubmission, error)
  SubmitExam(ctx context.Context, actor types.Actor, attemptID uuid.UUID, answers datatypes.JSON) (*types.ExamSubmission, error)
  SubmitProject(ctx context.Context, actor types.Actor, attemptID uuid.UUID, payload ProjectPayload) (*types.ProjectSubmission, error)
  EvaluateQuiz(ctx context.Context, actor types.Actor, attemptID uuid.UUID, status, comments string) (*types.QuizSubmission, error)
  EvaluateExam(ctx context.Context, actor types.Actor, attemptID uuid.UUID, status, comments string) (*types.ExamSubmission, error)
  EvaluateProject(ctx context.Context, actor types.Actor, attemptID uuid.UUID, status, comments string) (*types.ProjectSubmission, error)
}

type submissionService struct {
  db             *gorm.DB
  log            *logger.Logger
  contentRepo    repos.ContentRepo
  enrollmentRepo repos.EnrollmentRepo
  quizRepo       repos.EnrollmentQuizRepo
  examRepo       repos.EnrollmentExamRepo
  projectRepo    repos.EnrollmentProjectRepo
  quizSubRepo    repos.QuizSubmissionRepo
  examSubRepo    repos.ExamSubmissionRepo
  projSubRepo    repos.ProjectSubmissionRepo
  aggregator     ProgressAggregator
  progressCache  *cache.ProgressCache
  notifier       Notifier
  audit          AuditLog
}

func NewSubmissionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  contentRepo repos.ContentRepo,
  enrollmentRepo repos.EnrollmentRepo,
  quizRepo repos.EnrollmentQuizRepo,
  examRepo repos.EnrollmentExamRepo,
  projectRepo repos.EnrollmentProjectRepo,
  quizSubRepo repos.QuizSubmissionRepo,
  examSubRepo repos.ExamSubmissionRepo,
  projSubRepo repos.ProjectSubmissionRepo,
  aggregator ProgressAggregator,
  progressCache *cache.ProgressCache,
  notifier Notifier,
  audit AuditLog,
) SubmissionService {
  return &submissionService{
    db:             db,
    log:            baseLog.With("service", "SubmissionService"),
    contentRepo:    contentRepo,
    enrollmentRepo: enrollmentRepo,
    quizRepo:       quizRepo,
    examRepo:       examRepo,
    projectRepo:    projectRepo,
    quizSubRepo:    quizSubRepo,
    examSubRepo:    examSubRepo,
    projSubRepo:    projSubRepo,
    aggregator:     aggregator,
    progressCache:  progressCache,
    notifier:       notifier,
    audit:          audit,
  }
}

// checkResubmit decides whether an existing submission may be overwritten.
// Quiz and project submissions are upserts: a pending or failed submission
// is replaced in place. Exams are one-shot; after the first submit the only
// path forward is a trainer-assigned remedial attempt.
func checkResubmit(existingStatus string, oneShot bool) error {
  if oneShot {
    return apperr.Duplicate("exam already submitted; a remedial attempt is required to retry")
  }
  switch existingStatus {
  case types.SubmissionSubmitted:
    return nil
  case types.SubmissionFailed:
    if types.CanSubmissionTransition(types.SubmissionFailed, types.SubmissionSubmitted) {
      return nil
    }
    return apperr.Duplicate("failed submission cannot be replaced")
  case types.SubmissionInReview:
    return apperr.Conflict("submission is under review")
  default:
    return apperr.Duplicate("submission already graded as %s", existingStatus)
  }
}

// startAttempt moves an attempt into in_progress on its first submission.
func startAttempt(status string, startedAt *time.Time) (string, *time.Time, error) {
  if status == types.StatusNotStarted {
    if !types.CanAttemptTransition(status, types.StatusInProgress) {
      return "", nil, apperr.Validation("attempt cannot move from %s to %s", status, types.StatusInProgress)
    }
    status = types.StatusInProgress
  }
  if startedAt == nil {
    now := time.Now().UTC()
    startedAt = &now
  }
  return status, startedAt, nil
}

func (s *submissionService) SubmitQuiz(ctx context.Context, actor types.Actor, attemptID uuid.UUID, answers datatypes.JSON) (*types.QuizSubmission, error) {
  attempt, err := s.quizRepo.GetByID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load quiz attempt: %w", err))
  }
  if attempt == nil {
    return nil, apperr.NotFound("quiz attempt not found")
  }
  enrollment, err := s.ownedEnrollment(ctx, actor, attempt.EnrollmentID)
  if err != nil {
    return nil, err
  }

  existing, err := s.quizSubRepo.GetByAttemptID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load existing submission: %w", err))
  }
  if existing != nil {
    if err := checkResubmit(existing.Status, false); err != nil {
      return nil, err
    }
  }

  var submission *types.QuizSubmission
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if existing != nil {
      existing.Status = types.SubmissionSubmitted
      existing.Answers = answers
      existing.ReviewComments = ""
      if err := s.quizSubRepo.Save(ctx, tx, existing); err != nil {
        return fmt.Errorf("update submission: %w", err)
      }
      submission = existing
    } else {
      submission = &types.QuizSubmission{
        ID:           uuid.New(),
        AttemptID:    attemptID,
        EnrollmentID: enrollment.ID,
        QuizID:       attempt.QuizID,
        CourseID:     enrollment.CourseID,
        Status:       types.SubmissionSubmitted,
        Answers:      answers,
      }
      if err := s.quizSubRepo.Create(ctx, tx, submission); err != nil {
        return fmt.Errorf("create submission: %w", err)
      }
    }

    status, startedAt, err := startAttempt(attempt.Status, attempt.StartedAt)
    if err != nil {
      return err
    }
    attempt.Status = status
    attempt.StartedAt = startedAt
    return s.quizRepo.Save(ctx, tx, attempt)
  })
  if err != nil {
    return nil, s.wrapTxError(err, "SubmitQuiz")
  }

  if quiz, qerr := s.contentRepo.GetQuizByID(ctx, nil, attempt.QuizID); qerr == nil && quiz != nil {
    s.notifier.Notify(ctx, quiz.CreatorID, "New quiz submission", fmt.Sprintf("A submission for %q is waiting for review", quiz.Title))
  }
  s.audit.Record(ctx, actor.ID, attemptID, "submitted a quiz", map[string]interface{}{
    "enrollment_id": enrollment.ID.String(),
    "quiz_id":       attempt.QuizID.String(),
  })
  return submission, nil
}

func (s *submissionService) SubmitExam(ctx context.Context, actor types.Actor, attemptID uuid.UUID, answers datatypes.JSON) (*types.ExamSubmission, error) {
  attempt, err := s.examRepo.GetByID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load exam attempt: %w", err))
  }
  if attempt == nil {
    return nil, apperr.NotFound("exam attempt not found")
  }
  enrollment, err := s.ownedEnrollment(ctx, actor, attempt.EnrollmentID)
  if err != nil {
    return nil, err
  }

  exam, err := s.contentRepo.GetExamByID(ctx, nil, attempt.ExamID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load exam: %w", err))
  }
  if exam != nil {
    now := time.Now().UTC()
    if exam.OpensAt != nil && now.Before(*exam.OpensAt) {
      return nil, apperr.Validation("exam is not open yet")
    }
    if exam.ClosesAt != nil && now.After(*exam.ClosesAt) {
      return nil, apperr.Validation("exam window has closed")
    }
  }

  existing, err := s.examSubRepo.GetByAttemptID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load existing submission: %w", err))
  }
  if existing != nil {
    if err := checkResubmit(existing.Status, true); err != nil {
      return nil, err
    }
  }

  submission := &types.ExamSubmission{
    ID:           uuid.New(),
    AttemptID:    attemptID,
    EnrollmentID: enrollment.ID,
    ExamID:       attempt.ExamID,
    CourseID:     enrollment.CourseID,
    Status:       types.SubmissionSubmitted,
    Answers:      answers,
  }
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.examSubRepo.Create(ctx, tx, submission); err != nil {
      return fmt.Errorf("create submission: %w", err)
    }
    status, startedAt, err := startAttempt(attempt.Status, attempt.StartedAt)
    if err != nil {
      return err
    }
    attempt.Status = status
    attempt.StartedAt = startedAt
    return s.examRepo.Save(ctx, tx, attempt)
  })
  if err != nil {
    return nil, s.wrapTxError(err, "SubmitExam")
  }

  if exam != nil {
    s.notifier.Notify(ctx, exam.CreatorID, "New exam submission", fmt.Sprintf("A submission for %q is waiting for review", exam.Title))
  }
  s.audit.Record(ctx, actor.ID, attemptID, "submitted an exam", map[string]interface{}{
    "enrollment_id": enrollment.ID.String(),
    "exam_id":       attempt.ExamID.String(),
  })
  return submission, nil
}

func (s *submissionService) SubmitProject(ctx context.Context, actor types.Actor, attemptID uuid.UUID, payload ProjectPayload) (*types.ProjectSubmission, error) {
  if payload.Link == "" && payload.FileURL == "" {
    return nil, apperr.Validation("a project submission needs a link or a file")
  }

  attempt, err := s.projectRepo.GetByID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load project attempt: %w", err))
  }
  if attempt == nil {
    return nil, apperr.NotFound("project attempt not found")
  }
  enrollment, err := s.ownedEnrollment(ctx, actor, attempt.EnrollmentID)
  if err != nil {
    return nil, err
  }

  existing, err := s.projSubRepo.GetByAttemptID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load existing submission: %w", err))
  }
  if existing != nil {
    if err := checkResubmit(existing.Status, false); err != nil {
      return nil, err
    }
  }

  var submission *types.ProjectSubmission
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if existing != nil {
      existing.Status = types.SubmissionSubmitted
      existing.Link = payload.Link
      existing.FileURL = payload.FileURL
      existing.ReviewComments = ""
      if err := s.projSubRepo.Save(ctx, tx, existing); err != nil {
        return fmt.Errorf("update submission: %w", err)
      }
      submission = existing
    } else {
      submission = &types.ProjectSubmission{
        ID:           uuid.New(),
        AttemptID:    attemptID,
        EnrollmentID: enrollment.ID,
        ProjectID:    attempt.ProjectID,
        CourseID:     enrollment.CourseID,
        Status:       types.SubmissionSubmitted,
        Link:         payload.Link,
        FileURL:      payload.FileURL,
      }
      if err := s.projSubRepo.Create(ctx, tx, submission); err != nil {
        return fmt.Errorf("create submission: %w", err)
      }
    }

    status, startedAt, err := startAttempt(attempt.Status, attempt.StartedAt)
    if err != nil {
      return err
    }
    attempt.Status = status
    attempt.StartedAt = startedAt
    return s.projectRepo.Save(ctx, tx, attempt)
  })
  if err != nil {
    return nil, s.wrapTxError(err, "SubmitProject")
  }

  if project, perr := s.contentRepo.GetProjectByID(ctx, nil, attempt.ProjectID); perr == nil && project != nil {
    s.notifier.Notify(ctx, project.CreatorID, "New project submission", fmt.Sprintf("A submission for %q is waiting for review", project.Title))
  }
  s.audit.Record(ctx, actor.ID, attemptID, "submitted a project", map[string]interface{}{
    "enrollment_id": enrollment.ID.String(),
    "project_id":    attempt.ProjectID.String(),
  })
  return submission, nil
}

func (s *submissionService) EvaluateQuiz(ctx context.Context, actor types.Actor, attemptID uuid.UUID, status, comments string) (*types.QuizSubmission, error) {
  if !types.ValidEvaluationStatus(status) {
    return nil, apperr.Validation("invalid evaluation status %q", status)
  }

  attempt, err := s.quizRepo.GetByID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load quiz attempt: %w", err))
  }
  if attempt == nil {
    return nil, apperr.NotFound("quiz attempt not found")
  }
  submission, err := s.quizSubRepo.GetByAttemptID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load submission: %w", err))
  }
  if submission == nil {
    return nil, apperr.NotFound("no submission for this attempt")
  }
  if err := s.authorizeEvaluate(ctx, actor, submission.CourseID); err != nil {
    return nil, err
  }
  if !types.CanSubmissionTransition(submission.Status, status) {
    return nil, apperr.Validation("submission cannot move from %s to %s", submission.Status, status)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    submission.Status = status
    submission.ReviewComments = comments
    if err := s.quizSubRepo.Save(ctx, tx, submission); err != nil {
      return fmt.Errorf("save submission: %w", err)
    }
    if status == types.SubmissionPassed {
      if err := s.completeQuizAttempt(ctx, tx, attempt); err != nil {
        return err
      }
    }
    _, err := s.aggregator.RecomputeEnrollment(ctx, tx, submission.EnrollmentID)
    return err
  })
  if err != nil {
    return nil, s.wrapTxError(err, "EvaluateQuiz")
  }

  s.progressCache.Invalidate(ctx, submission.EnrollmentID)
  s.notifyOutcome(ctx, submission.EnrollmentID, "Quiz reviewed", "quiz", status)
  return submission, nil
}

func (s *submissionService) EvaluateExam(ctx context.Context, actor types.Actor, attemptID uuid.UUID, status, comments string) (*types.ExamSubmission, error) {
  if !types.ValidEvaluationStatus(status) {
    return nil, apperr.Validation("invalid evaluation status %q", status)
  }

  attempt, err := s.examRepo.GetByID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load exam attempt: %w", err))
  }
  if attempt == nil {
    return nil, apperr.NotFound("exam attempt not found")
  }
  submission, err := s.examSubRepo.GetByAttemptID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load submission: %w", err))
  }
  if submission == nil {
    return nil, apperr.NotFound("no submission for this attempt")
  }
  if err := s.authorizeEvaluate(ctx, actor, submission.CourseID); err != nil {
    return nil, err
  }
  if !types.CanSubmissionTransition(submission.Status, status) {
    return nil, apperr.Validation("submission cannot move from %s to %s", submission.Status, status)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    submission.Status = status
    submission.ReviewComments = comments
    if err := s.examSubRepo.Save(ctx, tx, submission); err != nil {
      return fmt.Errorf("save submission: %w", err)
    }
    if status == types.SubmissionPassed {
      if err := s.completeExamAttempt(ctx, tx, attempt); err != nil {
        return err
      }
    }
    _, err := s.aggregator.RecomputeEnrollment(ctx, tx, submission.EnrollmentID)
    return err
  })
  if err != nil {
    return nil, s.wrapTxError(err, "EvaluateExam")
  }

  s.progressCache.Invalidate(ctx, submission.EnrollmentID)
  s.notifyOutcome(ctx, submission.EnrollmentID, "Exam reviewed", "exam", status)
  return submission, nil
}

func (s *submissionService) EvaluateProject(ctx context.Context, actor types.Actor, attemptID uuid.UUID, status, comments string) (*types.ProjectSubmission, error) {
  if !types.ValidEvaluationStatus(status) {
    return nil, apperr.Validation("invalid evaluation status %q", status)
  }

  attempt, err := s.projectRepo.GetByID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load project attempt: %w", err))
  }
  if attempt == nil {
    return nil, apperr.NotFound("project attempt not found")
  }
  submission, err := s.projSubRepo.GetByAttemptID(ctx, nil, attemptID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load submission: %w", err))
  }
  if submission == nil {
    return nil, apperr.NotFound("no submission for this attempt")
  }
  if err := s.authorizeEvaluate(ctx, actor, submission.CourseID); err != nil {
    return nil, err
  }
  if !types.CanSubmissionTransition(submission.Status, status) {
    return nil, apperr.Validation("submission cannot move from %s to %s", submission.Status, status)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    submission.Status = status
    submission.ReviewComments = comments
    if err := s.projSubRepo.Save(ctx, tx, submission); err != nil {
      return fmt.Errorf("save submission: %w", err)
    }
    if status == types.SubmissionPassed {
      if err := s.completeProjectAttempt(ctx, tx, attempt); err != nil {
        return err
      }
    }
    _, err := s.aggregator.RecomputeEnrollment(ctx, tx, submission.EnrollmentID)
    return err
  })
  if err != nil {
    return nil, s.wrapTxError(err, "EvaluateProject")
  }

  s.progressCache.Invalidate(ctx, submission.EnrollmentID)
  s.notifyOutcome(ctx, submission.EnrollmentID, "Project reviewed", "project", status)
  return submission, nil
}

func (s *submissionService) completeQuizAttempt(ctx context.Context, tx *gorm.DB, attempt *types.EnrollmentQuiz) error {
  if !types.CanAttemptTransition(attempt.Status, types.StatusCompleted) {
    return apperr.Validation("attempt cannot move from %s to %s", attempt.Status, types.StatusCompleted)
  }
  now := time.Now().UTC()
  attempt.Status = types.StatusCompleted
  attempt.Progress = 100
  attempt.CompletedAt = &now
  return s.quizRepo.Save(ctx, tx, attempt)
}

func (s *submissionService) completeExamAttempt(ctx context.Context, tx *gorm.DB, attempt *types.EnrollmentExam) error {
  if !types.CanAttemptTransition(attempt.Status, types.StatusCompleted) {
    return apperr.Validation("attempt cannot move from %s to %s", attempt.Status, types.StatusCompleted)
  }
  now := time.Now().UTC()
  attempt.Status = types.StatusCompleted
  attempt.Progress = 100
  attempt.CompletedAt = &now
  return s.examRepo.Save(ctx, tx, attempt)
}

func (s *submissionService) completeProjectAttempt(ctx context.Context, tx *gorm.DB, attempt *types.EnrollmentProject) error {
  if !types.CanAttemptTransition(attempt.Status, types.StatusCompleted) {
    return apperr.Validation("attempt cannot move from %s to %s", attempt.Status, types.StatusCompleted)
  }
  now := time.Now().UTC()
  attempt.Status = types.StatusCompleted
  attempt.Progress = 100
  attempt.CompletedAt = &now
  return s.projectRepo.Save(ctx, tx, attempt)
}

func (s *submissionService) ownedEnrollment(ctx context.Context, actor types.Actor, enrollmentID uuid.UUID) (*types.Enrollment, error) {
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

func (s *submissionService) authorizeEvaluate(ctx context.Context, actor types.Actor, courseID uuid.UUID) error {
  if actor.IsAdmin() {
    return nil
  }
  if !actor.IsTrainer() {
    return apperr.Authorization("only trainers can evaluate submissions")
  }
  assigned, err := s.contentRepo.TrainerAssignedToCourse(ctx, nil, courseID, actor.ID)
  if err != nil {
    return apperr.Internal(fmt.Errorf("check trainer assignment: %w", err))
  }
  if !assigned {
    return apperr.Authorization("trainer is not assigned to this course")
  }
  return nil
}

func (s *submissionService) notifyOutcome(ctx context.Context, enrollmentID uuid.UUID, title, kind, status string) {
  enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID)
  if err != nil || enrollment == nil {
    return
  }
  var message string
  switch status {
  case types.SubmissionPassed:
    message = fmt.Sprintf("Your %s submission passed", kind)
  case types.SubmissionFailed:
    message = fmt.Sprintf("Your %s submission did not pass", kind)
  default:
    message = fmt.Sprintf("Your %s submission is under review", kind)
  }
  s.notifier.Notify(ctx, enrollment.StudentID, title, message)
}

// wrapTxError keeps domain errors raised inside a transaction intact and
// converts everything else, duplicate-key violations first.
func (s *submissionService) wrapTxError(err error, op string) error {
  var domainErr *apperr.Error
  if errors.As(err, &domainErr) {
    return domainErr
  }
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return apperr.Conflict("concurrent submission detected")
  }
  s.log.Error(op+" failed", "error", err)
  return apperr.Internal(err)
}
