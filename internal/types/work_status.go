package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkStatus is a catalog entry ("Journeyman", "Apprentice", "Retired", ...).
// Workers point at exactly one.
type WorkStatus struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkStatus) TableName() string { return "work_status" }
