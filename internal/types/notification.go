package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Message   string         `gorm:"column:message;not null" json:"message"`
	ReadAt    *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Notification) TableName() string { return "notification" }

type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	SubjectID  uuid.UUID      `gorm:"type:uuid;index" json:"subject_id"`
	Message    string         `gorm:"column:message;not null" json:"message"`
	Properties datatypes.JSON `gorm:"type:jsonb;column:properties" json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
