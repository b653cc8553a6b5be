package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	Email         string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Role          string         `gorm:"column:role;not null;default:'student'" json:"role"`
	InstitutionID uuid.UUID      `gorm:"type:uuid;index" json:"institution_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

// Actor is the authenticated identity threaded explicitly through every
// service operation. It is resolved by the transport layer and never read
// from ambient state.
type Actor struct {
	ID            uuid.UUID
	Role          string
	InstitutionID uuid.UUID
}

func (a Actor) IsStudent() bool { return a.Role == RoleStudent }
func (a Actor) IsTrainer() bool { return a.Role == RoleTrainer }
func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
