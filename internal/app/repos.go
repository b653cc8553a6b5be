package app

import (
	"gorm.io/gorm"

	"github.com/adanepro/spotlightacademy-sub000/internal/logger"
	"github.com/adanepro/spotlightacademy-sub000/internal/repos"
)

type Repos struct {
	User               repos.UserRepo
	Content            repos.ContentRepo
	Enrollment         repos.EnrollmentRepo
	EnrollmentModule   repos.EnrollmentModuleRepo
	EnrollmentLecture  repos.EnrollmentLectureRepo
	EnrollmentMaterial repos.EnrollmentMaterialRepo
	EnrollmentQuiz     repos.EnrollmentQuizRepo
	EnrollmentExam     repos.EnrollmentExamRepo
	EnrollmentProject  repos.EnrollmentProjectRepo
	QuizSubmission     repos.QuizSubmissionRepo
	ExamSubmission     repos.ExamSubmissionRepo
	ProjectSubmission  repos.ProjectSubmissionRepo
	Notification       repos.NotificationRepo
	ActivityLog        repos.ActivityLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               repos.NewUserRepo(db, log),
		Content:            repos.NewContentRepo(db, log),
		Enrollment:         repos.NewEnrollmentRepo(db, log),
		EnrollmentModule:   repos.NewEnrollmentModuleRepo(db, log),
		EnrollmentLecture:  repos.NewEnrollmentLectureRepo(db, log),
		EnrollmentMaterial: repos.NewEnrollmentMaterialRepo(db, log),
		EnrollmentQuiz:     repos.NewEnrollmentQuizRepo(db, log),
		EnrollmentExam:     repos.NewEnrollmentExamRepo(db, log),
		EnrollmentProject:  repos.NewEnrollmentProjectRepo(db, log),
		QuizSubmission:     repos.NewQuizSubmissionRepo(db, log),
		ExamSubmission:     repos.NewExamSubmissionRepo(db, log),
		ProjectSubmission:  repos.NewProjectSubmissionRepo(db, log),
		Notification:       repos.NewNotificationRepo(db, log),
		ActivityLog:        repos.NewActivityLogRepo(db, log),
	}
}
