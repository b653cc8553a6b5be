package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentModule struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollment_module,unique" json:"enrollment_id"`
	Enrollment   *Enrollment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	ModuleID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollment_module,unique" json:"module_id"`
	Status       string         `gorm:"column:status;not null;default:'not_started'" json:"status"`
	Progress     float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EnrollmentModule) TableName() string { return "enrollment_module" }
