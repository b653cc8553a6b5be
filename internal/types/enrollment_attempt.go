package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The three attempt tables are structurally identical. RemedialOf is a
// back-reference to the prior attempt in a retry chain, never an ownership
// edge; its unique index is what makes remedial assignment idempotent under
// concurrent batches (NULL roots are exempt).

type EnrollmentQuiz struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	Enrollment   *Enrollment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	QuizID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	ModuleID     uuid.UUID      `gorm:"type:uuid;index" json:"module_id"`
	RemedialOf   *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"remedial_of,omitempty"`
	Status       string         `gorm:"column:status;not null;default:'not_started'" json:"status"`
	Progress     float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	StartedAt    *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EnrollmentQuiz) TableName() string { return "enrollment_quiz" }

type EnrollmentExam struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	Enrollment   *Enrollment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	ExamID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"exam_id"`
	RemedialOf   *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"remedial_of,omitempty"`
	Status       string         `gorm:"column:status;not null;default:'not_started'" json:"status"`
	Progress     float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	StartedAt    *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EnrollmentExam) TableName() string { return "enrollment_exam" }

type EnrollmentProject struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	Enrollment   *Enrollment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	RemedialOf   *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"remedial_of,omitempty"`
	Status       string         `gorm:"column:status;not null;default:'not_started'" json:"status"`
	Progress     float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	StartedAt    *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EnrollmentProject) TableName() string { return "enrollment_project" }
