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

type EnrollmentHandler struct {
  log           *logger.Logger
  enrollmentSvc services.EnrollmentService
}

func NewEnrollmentHandler(log *logger.Logger, enrollmentSvc services.EnrollmentService) *EnrollmentHandler {
  return &EnrollmentHandler{
    log:           log.With("handler", "EnrollmentHandler"),
    enrollmentSvc: enrollmentSvc,
  }
}

// POST /api/enrollments
// Enroll the authenticated student in a course, snapshotting its content.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var body struct {
    CourseID uuid.UUID `json:"course_id" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apperr.Validation("invalid request body: %v", err))
    return
  }
  enrollment, err := h.enrollmentSvc.Enroll(c.Request.Context(), actor, body.CourseID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, enrollment)
}

// GET /api/enrollments
// List the authenticated student's enrollments.
func (h *EnrollmentHandler) List(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  enrollments, err := h.enrollmentSvc.ListEnrollments(c.Request.Context(), actor)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, enrollments)
}

// GET /api/enrollments/:id/progress
func (h *EnrollmentHandler) Progress(c *gin.Context) {
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
  progress, err := h.enrollmentSvc.GetProgress(c.Request.Context(), actor, enrollmentID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"enrollment_id": enrollmentID, "progress": progress})
}

// POST /api/enrollments/:id/lectures/:lectureID/watch
func (h *EnrollmentHandler) WatchLecture(c *gin.Context) {
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
  lectureID, err := uuid.Parse(c.Param("lectureID"))
  if err != nil {
    RespondError(c, apperr.Validation("invalid lecture id"))
    return
  }
  row, err := h.enrollmentSvc.WatchLecture(c.Request.Context(), actor, enrollmentID, lectureID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, row)
}

// POST /api/enrollments/:id/materials/:materialID/view
func (h *EnrollmentHandler) ViewMaterial(c *gin.Context) {
  h.markMaterial(c, h.enrollmentSvc.ViewMaterial)
}

// POST /api/enrollments/:id/materials/:materialID/download
func (h *EnrollmentHandler) DownloadMaterial(c *gin.Context) {
  h.markMaterial(c, h.enrollmentSvc.DownloadMaterial)
}

func (h *EnrollmentHandler) markMaterial(c *gin.Context, fn func(ctx context.Context, actor types.Actor, enrollmentID, materialID uuid.UUID) (*types.EnrollmentLectureMaterial, error)) {
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
  materialID, err := uuid.Parse(c.Param("materialID"))
  if err != nil {
    RespondError(c, apperr.Validation("invalid material id"))
    return
  }
  row, err := fn(c.Request.Context(), actor, enrollmentID, materialID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, row)
}
