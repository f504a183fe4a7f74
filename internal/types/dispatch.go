package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dispatch records one worker being sent to one job. Accepted flips when the
// worker confirms the referral.
type Dispatch struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"worker_id"`
	Worker     *Worker        `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkerID;references:ID" json:"worker,omitempty"`
	JobID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"job_id"`
	Job        *Job           `gorm:"constraint:OnDelete:CASCADE;foreignKey:JobID;references:ID" json:"job,omitempty"`
	Accepted   bool           `gorm:"not null;default:false" json:"accepted"`
	AcceptedAt *time.Time     `json:"accepted_at,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Dispatch) TableName() string { return "dispatch" }
