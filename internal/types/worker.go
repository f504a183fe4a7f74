package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Worker is a union member on the out-of-work list. SiriusID is the member
// number printed on the union card, distinct from the row id.
type Worker struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SiriusID     int64          `gorm:"not null;uniqueIndex" json:"sirius_id"`
	ContactID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"contact_id"`
	Contact      *Contact       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContactID;references:ID" json:"contact,omitempty"`
	WorkStatusID *uuid.UUID     `gorm:"type:uuid;index" json:"work_status_id,omitempty"`
	WorkStatus   *WorkStatus    `gorm:"constraint:OnDelete:SET NULL;foreignKey:WorkStatusID;references:ID" json:"work_status,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Worker) TableName() string { return "worker" }
