package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollmentLecture is owned by its EnrollmentModule; EnrollmentID is
// denormalized so the aggregator can load every lecture row of an
// enrollment in one query.
type EnrollmentLecture struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentModuleID uuid.UUID         `gorm:"type:uuid;not null;index:idx_enrmodule_lecture,unique" json:"enrollment_module_id"`
	EnrollmentModule   *EnrollmentModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentModuleID;references:ID" json:"enrollment_module,omitempty"`
	EnrollmentID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	LectureID          uuid.UUID         `gorm:"type:uuid;not null;index:idx_enrmodule_lecture,unique" json:"lecture_id"`
	Status             string            `gorm:"column:status;not null;default:'not_started'" json:"status"`
	IsWatched          bool              `gorm:"column:is_watched;not null;default:false" json:"is_watched"`
	Progress           float64           `gorm:"column:progress;not null;default:0" json:"progress"`
	CompletedAt        *time.Time        `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	DeletedAt          gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (EnrollmentLecture) TableName() string { return "enrollment_lecture" }

// EnrollmentLectureMaterial is a terminal leaf with two flags and no status
// machine of its own.
type EnrollmentLectureMaterial struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentLectureID uuid.UUID          `gorm:"type:uuid;not null;index:idx_enrlecture_material,unique" json:"enrollment_lecture_id"`
	EnrollmentLecture   *EnrollmentLecture `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentLectureID;references:ID" json:"enrollment_lecture,omitempty"`
	MaterialID          uuid.UUID          `gorm:"type:uuid;not null;index:idx_enrlecture_material,unique" json:"material_id"`
	IsViewed            bool               `gorm:"column:is_viewed;not null;default:false" json:"is_viewed"`
	IsDownloaded        bool               `gorm:"column:is_downloaded;not null;default:false" json:"is_downloaded"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	DeletedAt           gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (EnrollmentLectureMaterial) TableName() string { return "enrollment_lecture_material" }
