package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
  "github.com/adanepro/spotlightacademy-sub000/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "spotlightacademy", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  serviceLog.Info("Connecting to Postgres...")
  gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
    TranslateError:                           true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("connect to postgres: %w", err)
  }

  if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
  }

  return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  if err := AutoMigrate(s.db); err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  return nil
}

// AutoMigrate creates every table of the engine, including the unique
// indexes the concurrency guards rely on (student+course enrollment,
// attempt_id per submission, remedial_of per attempt table).
func AutoMigrate(gormDB *gorm.DB) error {
  return gormDB.AutoMigrate(
    &types.User{},
    &types.Course{},
    &types.CourseTrainer{},
    &types.CourseModule{},
    &types.Lecture{},
    &types.LectureMaterial{},
    &types.Quiz{},
    &types.Exam{},
    &types.Project{},
    &types.Enrollment{},
    &types.EnrollmentModule{},
    &types.EnrollmentLecture{},
    &types.EnrollmentLectureMaterial{},
    &types.EnrollmentQuiz{},
    &types.EnrollmentExam{},
    &types.EnrollmentProject{},
    &types.QuizSubmission{},
    &types.ExamSubmission{},
    &types.ProjectSubmission{},
    &types.Notification{},
    &types.ActivityLog{},
  )
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
