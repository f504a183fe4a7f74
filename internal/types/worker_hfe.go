package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerHFE is a hold-for-employer entry: this worker is reserved for this
// employer's jobs only.
type WorkerHFE struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"worker_id"`
	EmployerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"employer_id"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkerHFE) TableName() string { return "worker_hfe" }
