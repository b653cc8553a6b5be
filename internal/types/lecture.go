package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lecture struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module    *CourseModule  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Index     int            `gorm:"column:index;not null" json:"index"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	VideoURL  string         `gorm:"column:video_url" json:"video_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lecture) TableName() string { return "lecture" }

type LectureMaterial struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LectureID uuid.UUID      `gorm:"type:uuid;not null;index" json:"lecture_id"`
	Lecture   *Lecture       `gorm:"constraint:OnDelete:CASCADE;foreignKey:LectureID;references:ID" json:"lecture,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	FileURL   string         `gorm:"column:file_url;not null" json:"file_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LectureMaterial) TableName() string { return "lecture_material" }
