package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/services"
)

type NotificationHandler struct {
  log             *logger.Logger
  notificationSvc services.NotificationService
}

func NewNotificationHandler(log *logger.Logger, notificationSvc services.NotificationService) *NotificationHandler {
  return &NotificationHandler{
    log:             log.With("handler", "NotificationHandler"),
    notificationSvc: notificationSvc,
  }
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
  actor, err := actorFrom(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  rows, err := h.notificationSvc.ListForActor(c.Request.Context(), actor)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, rows)
}
