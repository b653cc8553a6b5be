package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/services"
)

type SyncHandler struct {
  log     *logger.Logger
  syncSvc services.SyncService
}

func NewSyncHandler(log *logger.Logger, syncSvc services.SyncService) *SyncHandler {
  return &SyncHandler{
    log:     log.With("handler", "SyncHandler"),
    syncSvc: syncSvc,
  }
}

// POST /api/enrollments/:id/sync
// Pull content published after enrollment into the student's snapshot.
func (h *SyncHandler) SyncEnrollment(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  enrollmentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, apperr.Validation("invalid enrollment id"))
    return
  }
  result, err := h.syncSvc.SyncEnrollmentFor(c.Request.Context(), actor, enrollmentID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}

// POST /api/courses/:id/sync
// Fan the reconciliation out over every enrollment of the course.
func (h *SyncHandler) SyncCourse(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  courseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, apperr.Validation("invalid course id"))
    return
  }
  results, err := h.syncSvc.SyncCourse(c.Request.Context(), actor, courseID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, results)
}
