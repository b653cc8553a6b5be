package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment is the root of a student's private snapshot of a course. The
// composite unique index makes a concurrent double-enroll lose at the
// storage layer rather than racing an existence check.
type Enrollment struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_student_course,unique" json:"student_id"`
	Student     *User          `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	CourseID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_student_course,unique" json:"course_id"`
	Course      *Course        `gorm:"foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Status      string         `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	Progress    float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	StartedAt   time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }
