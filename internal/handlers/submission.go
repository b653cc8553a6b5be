package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/services"
)

type SubmissionHandler struct {
  log           *logger.Logger
  submissionSvc services.SubmissionService
}

func NewSubmissionHandler(log *logger.Logger, submissionSvc services.SubmissionService) *SubmissionHandler {
  return &SubmissionHandler{
    log:           log.With("handler", "SubmissionHandler"),
    submissionSvc: submissionSvc,
  }
}

type answersBody struct {
  Answers datatypes.JSON `json:"answers" binding:"required"`
}

type evaluateBody struct {
  Status   string `json:"status" binding:"required"`
  Comments string `json:"comments"`
}

func attemptIDParam(c *gin.Context) (uuid.UUID, error) {
  id, err := uuid.Parse(c.Param("attemptID"))
  if err != nil {
    return uuid.Nil, apperr.Validation("invalid attempt id")
  }
  return id, nil
}

// POST /api/attempts/quizzes/:attemptID/submission
func (h *SubmissionHandler) SubmitQuiz(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  attemptID, err := attemptIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var body answersBody
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  submission, err := h.submissionSvc.SubmitQuiz(c.Request.Context(), actor, attemptID, body.Answers)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, submission)
}

// POST /api/attempts/exams/:attemptID/submission
func (h *SubmissionHandler) SubmitExam(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  attemptID, err := attemptIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var body answersBody
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  submission, err := h.submissionSvc.SubmitExam(c.Request.Context(), actor, attemptID, body.Answers)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, submission)
}

// POST /api/attempts/projects/:attemptID/submission
func (h *SubmissionHandler) SubmitProject(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  attemptID, err := attemptIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var body struct {
    Link    string `json:"link"`
    FileURL string `json:"file_url"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  submission, err := h.submissionSvc.SubmitProject(c.Request.Context(), actor, attemptID, services.ProjectPayload{
    Link:    body.Link,
    FileURL: body.FileURL,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, submission)
}

// POST /api/attempts/quizzes/:attemptID/evaluation
func (h *SubmissionHandler) EvaluateQuiz(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  attemptID, err := attemptIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var body evaluateBody
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  submission, err := h.submissionSvc.EvaluateQuiz(c.Request.Context(), actor, attemptID, body.Status, body.Comments)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, submission)
}

// POST /api/attempts/exams/:attemptID/evaluation
func (h *SubmissionHandler) EvaluateExam(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  attemptID, err := attemptIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var body evaluateBody
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  submission, err := h.submissionSvc.EvaluateExam(c.Request.Context(), actor, attemptID, body.Status, body.Comments)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, submission)
}

// POST /api/attempts/projects/:attemptID/evaluation
func (h *SubmissionHandler) EvaluateProject(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  attemptID, err := attemptIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var body evaluateBody
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  submission, err := h.submissionSvc.EvaluateProject(c.Request.Context(), actor, attemptID, body.Status, body.Comments)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, submission)
}
