package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DispatchStatusAvailable   = "Available"
	DispatchStatusUnavailable = "Unavailable"
	DispatchStatusWorking     = "Working"
)

// WorkerDispatchStatus is the worker's current standing on the dispatch
// board. One row per worker; saves overwrite in place.
type WorkerDispatchStatus struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkerID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"worker_id"`
	Status    string         `gorm:"not null" json:"status"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkerDispatchStatus) TableName() string { return "worker_dispatch_status" }
