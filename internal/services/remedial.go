package services

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/repos"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// RemedialResult reports what a batch actually did. Skipped ids are
// expected no-ops (unknown attempt, no failed submission, or a remedial
// already in place), never errors.
type RemedialResult struct {
  Created []uuid.UUID `json:"created"`
  Skipped []uuid.UUID `json:"skipped"`
}

type RemedialService interface {
  AssignRemedialQuiz(ctx context.Context, actor types.Actor, quizID uuid.UUID, failedAttemptIDs []uuid.UUID) (*RemedialResult, error)
  AssignRemedialExam(ctx context.Context, actor types.Actor, examID uuid.UUID, failedAttemptIDs []uuid.UUID) (*RemedialResult, error)
  AssignRemedialProject(ctx context.Context, actor types.Actor, projectID uuid.UUID, failedAttemptIDs []uuid.UUID) (*RemedialResult, error)
}

type remedialService struct {
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
  notifier       Notifier
}

func NewRemedialService(
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
  notifier Notifier,
) RemedialService {
  return &remedialService{
    db:             db,
    log:            baseLog.With("service", "RemedialService"),
    contentRepo:    contentRepo,
    enrollmentRepo: enrollmentRepo,
    quizRepo:       quizRepo,
    examRepo:       examRepo,
    projectRepo:    projectRepo,
    quizSubRepo:    quizSubRepo,
    examSubRepo:    examSubRepo,
    projSubRepo:    projSubRepo,
    notifier:       notifier,
  }
}

func (s *remedialService) AssignRemedialQuiz(ctx context.Context, actor types.Actor, quizID uuid.UUID, failedAttemptIDs []uuid.UUID) (*RemedialResult, error) {
  quiz, err := s.contentRepo.GetQuizByID(ctx, nil, quizID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load quiz: %w", err))
  }
  if quiz == nil {
    return nil, apperr.NotFound("quiz not found")
  }
  if err := s.authorizeCreator(actor, quiz.CreatorID); err != nil {
    return nil, err
  }

  result := &RemedialResult{}
  var notify []uuid.UUID // affected enrollment ids

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, attemptID := range failedAttemptIDs {
      attempt, err := s.quizRepo.GetByID(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("load attempt %s: %w", attemptID, err)
      }
      if attempt == nil || attempt.QuizID != quizID {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }
      sub, err := s.quizSubRepo.GetByAttemptID(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("load submission for %s: %w", attemptID, err)
      }
      if sub == nil || sub.Status != types.SubmissionFailed {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }
      exists, err := s.quizRepo.ExistsRemedialOf(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("check existing remedial for %s: %w", attemptID, err)
      }
      if exists {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }

      now := time.Now().UTC()
      target := attemptID
      remedial := &types.EnrollmentQuiz{
        ID:           uuid.New(),
        EnrollmentID: attempt.EnrollmentID,
        QuizID:       attempt.QuizID,
        ModuleID:     attempt.ModuleID,
        RemedialOf:   &target,
        Status:       types.StatusNotStarted,
        StartedAt:    &now,
      }
      if _, err := s.quizRepo.Create(ctx, tx, []*types.EnrollmentQuiz{remedial}); err != nil {
        return fmt.Errorf("create remedial for %s: %w", attemptID, err)
      }
      result.Created = append(result.Created, remedial.ID)
      notify = append(notify, attempt.EnrollmentID)
    }
    return nil
  })
  if err != nil {
    return nil, s.wrapBatchError(err)
  }

  s.notifyStudents(ctx, notify, "Remedial quiz assigned", fmt.Sprintf("You have a new attempt for %q", quiz.Title))
  return result, nil
}

func (s *remedialService) AssignRemedialExam(ctx context.Context, actor types.Actor, examID uuid.UUID, failedAttemptIDs []uuid.UUID) (*RemedialResult, error) {
  exam, err := s.contentRepo.GetExamByID(ctx, nil, examID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load exam: %w", err))
  }
  if exam == nil {
    return nil, apperr.NotFound("exam not found")
  }
  if err := s.authorizeCreator(actor, exam.CreatorID); err != nil {
    return nil, err
  }

  result := &RemedialResult{}
  var notify []uuid.UUID

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, attemptID := range failedAttemptIDs {
      attempt, err := s.examRepo.GetByID(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("load attempt %s: %w", attemptID, err)
      }
      if attempt == nil || attempt.ExamID != examID {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }
      sub, err := s.examSubRepo.GetByAttemptID(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("load submission for %s: %w", attemptID, err)
      }
      if sub == nil || sub.Status != types.SubmissionFailed {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }
      exists, err := s.examRepo.ExistsRemedialOf(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("check existing remedial for %s: %w", attemptID, err)
      }
      if exists {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }

      now := time.Now().UTC()
      target := attemptID
      remedial := &types.EnrollmentExam{
        ID:           uuid.New(),
        EnrollmentID: attempt.EnrollmentID,
        ExamID:       attempt.ExamID,
        RemedialOf:   &target,
        Status:       types.StatusNotStarted,
        StartedAt:    &now,
      }
      if _, err := s.examRepo.Create(ctx, tx, []*types.EnrollmentExam{remedial}); err != nil {
        return fmt.Errorf("create remedial for %s: %w", attemptID, err)
      }
      result.Created = append(result.Created, remedial.ID)
      notify = append(notify, attempt.EnrollmentID)
    }
    return nil
  })
  if err != nil {
    return nil, s.wrapBatchError(err)
  }

  s.notifyStudents(ctx, notify, "Remedial exam assigned", fmt.Sprintf("You have a new attempt for %q", exam.Title))
  return result, nil
}

func (s *remedialService) AssignRemedialProject(ctx context.Context, actor types.Actor, projectID uuid.UUID, failedAttemptIDs []uuid.UUID) (*RemedialResult, error) {
  project, err := s.contentRepo.GetProjectByID(ctx, nil, projectID)
  if err != nil {
    return nil, apperr.Internal(fmt.Errorf("load project: %w", err))
  }
  if project == nil {
    return nil, apperr.NotFound("project not found")
  }
  if err := s.authorizeCreator(actor, project.CreatorID); err != nil {
    return nil, err
  }

  result := &RemedialResult{}
  var notify []uuid.UUID

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, attemptID := range failedAttemptIDs {
      attempt, err := s.projectRepo.GetByID(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("load attempt %s: %w", attemptID, err)
      }
      if attempt == nil || attempt.ProjectID != projectID {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }
      sub, err := s.projSubRepo.GetByAttemptID(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("load submission for %s: %w", attemptID, err)
      }
      if sub == nil || sub.Status != types.SubmissionFailed {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }
      exists, err := s.projectRepo.ExistsRemedialOf(ctx, tx, attemptID)
      if err != nil {
        return fmt.Errorf("check existing remedial for %s: %w", attemptID, err)
      }
      if exists {
        result.Skipped = append(result.Skipped, attemptID)
        continue
      }

      now := time.Now().UTC()
      target := attemptID
      remedial := &types.EnrollmentProject{
        ID:           uuid.New(),
        EnrollmentID: attempt.EnrollmentID,
        ProjectID:    attempt.ProjectID,
        RemedialOf:   &target,
        Status:       types.StatusNotStarted,
        StartedAt:    &now,
      }
      if _, err := s.projectRepo.Create(ctx, tx, []*types.EnrollmentProject{remedial}); err != nil {
        return fmt.Errorf("create remedial for %s: %w", attemptID, err)
      }
      result.Created = append(result.Created, remedial.ID)
      notify = append(notify, attempt.EnrollmentID)
    }
    return nil
  })
  if err != nil {
    return nil, s.wrapBatchError(err)
  }

  s.notifyStudents(ctx, notify, "Remedial project assigned", fmt.Sprintf("You have a new attempt for %q", project.Title))
  return result, nil
}

func (s *remedialService) authorizeCreator(actor types.Actor, creatorID uuid.UUID) error {
  if actor.IsAdmin() {
    return nil
  }
  if !actor.IsTrainer() || actor.ID != creatorID {
    return apperr.Authorization("only the assessment's creator can assign remedials")
  }
  return nil
}

func (s *remedialService) notifyStudents(ctx context.Context, enrollmentIDs []uuid.UUID, title, message string) {
  seen := map[uuid.UUID]bool{}
  for _, id := range enrollmentIDs {
    if seen[id] {
      continue
    }
    seen[id] = true
    enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, id)
    if err != nil || enrollment == nil {
      continue
    }
    s.notifier.Notify(ctx, enrollment.StudentID, title, message)
  }
}

// wrapBatchError maps a unique-index violation on remedial_of (two batches
// racing for the same failed attempt) to a retryable conflict.
func (s *remedialService) wrapBatchError(err error) error {
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return apperr.Conflict("concurrent remedial assignment detected")
  }
  s.log.Error("Remedial batch failed", "error", err)
  return apperr.Internal(err)
}
