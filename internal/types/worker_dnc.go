package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerDNC is a do-not-call entry: this worker must not be dispatched to
// this employer.
type WorkerDNC struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"worker_id"`
	EmployerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"employer_id"`
	Reason     string         `json:"reason,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkerDNC) TableName() string { return "worker_dnc" }
