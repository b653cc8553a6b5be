package app

import (
	"github.com/adanepro/spotlightacademy-sub000/internal/handlers"
	"github.com/adanepro/spotlightacademy-sub000/internal/logger"
)

type Handlers struct {
	Enrollment   *handlers.EnrollmentHandler
	Submission   *handlers.SubmissionHandler
	Remedial     *handlers.RemedialHandler
	Sync         *handlers.SyncHandler
	Notification *handlers.NotificationHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Enrollment:   handlers.NewEnrollmentHandler(log, s.Enrollment),
		Submission:   handlers.NewSubmissionHandler(log, s.Submission),
		Remedial:     handlers.NewRemedialHandler(log, s.Remedial),
		Sync:         handlers.NewSyncHandler(log, s.Sync),
		Notification: handlers.NewNotificationHandler(log, s.Notification),
	}
}
