package app

import (
	"github.com/gin-gonic/gin"

	"github.com/adanepro/spotlightacademy-sub000/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:      m.Auth,
		EnrollmentHandler:   h.Enrollment,
		SubmissionHandler:   h.Submission,
		RemedialHandler:     h.Remedial,
		SyncHandler:         h.Sync,
		NotificationHandler: h.Notification,
		AllowOrigins:        cfg.AllowOrigins,
	})
}
