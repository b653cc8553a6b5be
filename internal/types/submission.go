package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// One submission per attempt, enforced by the unique index on attempt_id.
// Resubmission (where the workflow allows it) overwrites the row in place.

type QuizSubmission struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"attempt_id"`
	Attempt        *EnrollmentQuiz `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"attempt,omitempty"`
	EnrollmentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	QuizID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"quiz_id"`
	CourseID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"course_id"`
	Status         string          `gorm:"column:status;not null;default:'submitted'" json:"status"`
	Answers        datatypes.JSON  `gorm:"type:jsonb;column:answers" json:"answers,omitempty"`
	ReviewComments string          `gorm:"column:review_comments" json:"review_comments,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizSubmission) TableName() string { return "quiz_submission" }

type ExamSubmission struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"attempt_id"`
	Attempt        *EnrollmentExam `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"attempt,omitempty"`
	EnrollmentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	ExamID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"exam_id"`
	CourseID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"course_id"`
	Status         string          `gorm:"column:status;not null;default:'submitted'" json:"status"`
	Answers        datatypes.JSON  `gorm:"type:jsonb;column:answers" json:"answers,omitempty"`
	ReviewComments string          `gorm:"column:review_comments" json:"review_comments,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (ExamSubmission) TableName() string { return "exam_submission" }

type ProjectSubmission struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"attempt_id"`
	Attempt        *EnrollmentProject `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"attempt,omitempty"`
	EnrollmentID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	ProjectID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"project_id"`
	CourseID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"course_id"`
	Status         string             `gorm:"column:status;not null;default:'submitted'" json:"status"`
	Link           string             `gorm:"column:link" json:"link,omitempty"`
	FileURL        string             `gorm:"column:file_url" json:"file_url,omitempty"`
	ReviewComments string             `gorm:"column:review_comments" json:"review_comments,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProjectSubmission) TableName() string { return "project_submission" }
