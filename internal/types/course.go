package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Description   string         `gorm:"column:description" json:"description"`
	TrainerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"trainer_id"`
	Trainer       *User          `gorm:"foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
	InstitutionID uuid.UUID      `gorm:"type:uuid;index" json:"institution_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

// CourseTrainer assigns an additional trainer to a course. The course owner
// (Course.TrainerID) is implicitly assigned.
type CourseTrainer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_course_trainer,unique" json:"course_id"`
	TrainerID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_trainer,unique" json:"trainer_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CourseTrainer) TableName() string { return "course_trainer" }
