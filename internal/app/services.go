package app

import (
	"gorm.io/gorm"

	"github.com/adanepro/spotlightacademy-sub000/internal/cache"
	"github.com/adanepro/spotlightacademy-sub000/internal/logger"
	"github.com/adanepro/spotlightacademy-sub000/internal/services"
)

type Services struct {
	Token        services.TokenService
	Enrollment   services.EnrollmentService
	Submission   services.SubmissionService
	Remedial     services.RemedialService
	Sync         services.SyncService
	Notification services.NotificationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	progressCache := cache.NewProgressCache(log)
	notifier := services.NewNotifier(log, r.Notification)
	audit := services.NewAuditLog(log, r.ActivityLog)
	aggregator := services.NewProgressAggregator(
		db, log,
		r.Enrollment, r.EnrollmentModule, r.EnrollmentLecture, r.EnrollmentMaterial,
		r.EnrollmentQuiz, r.EnrollmentExam, r.EnrollmentProject,
		r.QuizSubmission, r.ExamSubmission, r.ProjectSubmission,
		audit,
	)

	return Services{
		Token: services.NewTokenService(log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Enrollment: services.NewEnrollmentService(
			db, log,
			r.Content, r.User, r.Enrollment,
			r.EnrollmentModule, r.EnrollmentLecture, r.EnrollmentMaterial,
			r.EnrollmentQuiz, r.EnrollmentExam, r.EnrollmentProject,
			aggregator, progressCache, audit,
		),
		Submission: services.NewSubmissionService(
			db, log,
			r.Content, r.Enrollment,
			r.EnrollmentQuiz, r.EnrollmentExam, r.EnrollmentProject,
			r.QuizSubmission, r.ExamSubmission, r.ProjectSubmission,
			aggregator, progressCache, notifier, audit,
		),
		Remedial: services.NewRemedialService(
			db, log,
			r.Content, r.Enrollment,
			r.EnrollmentQuiz, r.EnrollmentExam, r.EnrollmentProject,
			r.QuizSubmission, r.ExamSubmission, r.ProjectSubmission,
			notifier,
		),
		Sync: services.NewSyncService(
			db, log,
			r.Content, r.User, r.Enrollment,
			r.EnrollmentModule, r.EnrollmentLecture, r.EnrollmentMaterial,
			r.EnrollmentQuiz, r.EnrollmentExam, r.EnrollmentProject,
			aggregator, progressCache,
		),
		Notification: services.NewNotificationService(log, r.Notification),
	}
}
