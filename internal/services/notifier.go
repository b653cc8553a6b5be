package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/adanepro/spotlightacademy-sub000/internal/logger"
	"github.com/adanepro/spotlightacademy-sub000/internal/repos"
	"github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// Notifier and AuditLog are fire-and-forget collaborators. Failures are
// logged and never surfaced to the calling operation, so a broken side
// channel cannot roll back a committed enrollment or grade.

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string)
}

type AuditLog interface {
	Record(ctx context.Context, actorID, subjectID uuid.UUID, message string, properties map[string]interface{})
}

type dbNotifier struct {
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
}

func NewNotifier(baseLog *logger.Logger, notificationRepo repos.NotificationRepo) Notifier {
	return &dbNotifier{
		log:              baseLog.With("service", "Notifier"),
		notificationRepo: notificationRepo,
	}
}

func (n *dbNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message string) {
	if n == nil || userID == uuid.Nil {
		return
	}
	row := &types.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := n.notificationRepo.Create(ctx, nil, row); err != nil {
		n.log.Warn("Failed to persist notification", "error", err, "user_id", userID, "title", title)
		return
	}
	n.log.Debug("Notification recorded", "user_id", userID, "title", title)
}

type dbAuditLog struct {
	log             *logger.Logger
	activityLogRepo repos.ActivityLogRepo
}

func NewAuditLog(baseLog *logger.Logger, activityLogRepo repos.ActivityLogRepo) AuditLog {
	return &dbAuditLog{
		log:             baseLog.With("service", "AuditLog"),
		activityLogRepo: activityLogRepo,
	}
}

func (a *dbAuditLog) Record(ctx context.Context, actorID, subjectID uuid.UUID, message string, properties map[string]interface{}) {
	if a == nil || actorID == uuid.Nil {
		return
	}
	var props datatypes.JSON
	if len(properties) > 0 {
		raw, err := json.Marshal(properties)
		if err != nil {
			a.log.Warn("Failed to marshal audit properties", "error", err)
		} else {
			props = datatypes.JSON(raw)
		}
	}
	row := &types.ActivityLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		SubjectID:  subjectID,
		Message:    message,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.activityLogRepo.Create(ctx, nil, row); err != nil {
		a.log.Warn("Failed to persist audit entry", "error", err, "actor_id", actorID, "message", message)
	}
}
