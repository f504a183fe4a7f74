package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerAvailability is an EBA declaration: the worker is employed but has
// flagged a specific date they can take a shift on.
type WorkerAvailability struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"worker_id"`
	AvailableOn time.Time      `gorm:"not null;index" json:"available_on"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkerAvailability) TableName() string { return "worker_availability" }

// AvailableYmd mirrors Job.StartYmd so the two compare as plain date strings.
func (a *WorkerAvailability) AvailableYmd() string {
	return a.AvailableOn.Format("2006-01-02")
}

// ParseYmd parses a YYYY-MM-DD string as a UTC date.
func ParseYmd(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
