package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz belongs to a single module of a course.
type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	ModuleID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	CreatorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *User          `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

// Exam is course-scoped and may carry an open window; window checks are
// plain time comparisons at submit time.
type Exam struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	CreatorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *User          `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	OpensAt   *time.Time     `gorm:"column:opens_at" json:"opens_at,omitempty"`
	ClosesAt  *time.Time     `gorm:"column:closes_at" json:"closes_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exam) TableName() string { return "exam" }

type Project struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	CreatorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *User          `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	DueAt     *time.Time     `gorm:"column:due_at" json:"due_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "project" }
