package handlers

import (
  "context"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/services"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type RemedialHandler struct {
  log         *logger.Logger
  remedialSvc services.RemedialService
}

func NewRemedialHandler(log *logger.Logger, remedialSvc services.RemedialService) *RemedialHandler {
  return &RemedialHandler{
    log:         log.With("handler", "RemedialHandler"),
    remedialSvc: remedialSvc,
  }
}

// POST /api/quizzes/:id/remedials
func (h *RemedialHandler) AssignQuizRemedials(c *gin.Context) {
  h.assign(c, h.remedialSvc.AssignRemedialQuiz)
}

// POST /api/exams/:id/remedials
func (h *RemedialHandler) AssignExamRemedials(c *gin.Context) {
  h.assign(c, h.remedialSvc.AssignRemedialExam)
}

// POST /api/projects/:id/remedials
func (h *RemedialHandler) AssignProjectRemedials(c *gin.Context) {
  h.assign(c, h.remedialSvc.AssignRemedialProject)
}

func (h *RemedialHandler) assign(c *gin.Context, fn func(ctx context.Context, actor types.Actor, assessmentID uuid.UUID, failedAttemptIDs []uuid.UUID) (*services.RemedialResult, error)) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  assessmentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, apperr.Validation("invalid assessment id"))
    return
  }
  var body struct {
    AttemptIDs []uuid.UUID `json:"attempt_ids" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  result, err := fn(c.Request.Context(), actor, assessmentID, body.AttemptIDs)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, result)
}
