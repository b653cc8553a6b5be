package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/adanepro/spotlightacademy-sub000/internal/handlers"
  "github.com/adanepro/spotlightacademy-sub000/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware      *middleware.AuthMiddleware
  EnrollmentHandler   *handlers.EnrollmentHandler
  SubmissionHandler   *handlers.SubmissionHandler
  RemedialHandler     *handlers.RemedialHandler
  SyncHandler         *handlers.SyncHandler
  NotificationHandler *handlers.NotificationHandler
  AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  allowOrigins := cfg.AllowOrigins
  if len(allowOrigins) == 0 {
    allowOrigins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())

  // Enrollment lifecycle
  api.POST("/enrollments", cfg.EnrollmentHandler.Enroll)
  api.GET("/enrollments", cfg.EnrollmentHandler.List)
  api.GET("/enrollments/:id/progress", cfg.EnrollmentHandler.Progress)
  api.POST("/enrollments/:id/lectures/:lectureID/watch", cfg.EnrollmentHandler.WatchLecture)
  api.POST("/enrollments/:id/materials/:materialID/view", cfg.EnrollmentHandler.ViewMaterial)
  api.POST("/enrollments/:id/materials/:materialID/download", cfg.EnrollmentHandler.DownloadMaterial)
  api.POST("/enrollments/:id/sync", cfg.SyncHandler.SyncEnrollment)

  // Submissions and grading
  api.POST("/attempts/quizzes/:attemptID/submission", cfg.SubmissionHandler.SubmitQuiz)
  api.POST("/attempts/exams/:attemptID/submission", cfg.SubmissionHandler.SubmitExam)
  api.POST("/attempts/projects/:attemptID/submission", cfg.SubmissionHandler.SubmitProject)
  api.POST("/attempts/quizzes/:attemptID/evaluation", cfg.SubmissionHandler.EvaluateQuiz)
  api.POST("/attempts/exams/:attemptID/evaluation", cfg.SubmissionHandler.EvaluateExam)
  api.POST("/attempts/projects/:attemptID/evaluation", cfg.SubmissionHandler.EvaluateProject)

  // Remedial chains
  api.POST("/quizzes/:id/remedials", cfg.RemedialHandler.AssignQuizRemedials)
  api.POST("/exams/:id/remedials", cfg.RemedialHandler.AssignExamRemedials)
  api.POST("/projects/:id/remedials", cfg.RemedialHandler.AssignProjectRemedials)

  // Content sync fan-out
  api.POST("/courses/:id/sync", cfg.SyncHandler.SyncCourse)

  // Notifications
  api.GET("/notifications", cfg.NotificationHandler.List)

  return router
}
