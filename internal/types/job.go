package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job is an open labor request from an employer. RequiredSkills holds a JSON
// array of skill id strings.
type Job struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EmployerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"employer_id"`
	Employer       *Employer      `gorm:"constraint:OnDelete:CASCADE;foreignKey:EmployerID;references:ID" json:"employer,omitempty"`
	JobTypeID      *uuid.UUID     `gorm:"type:uuid;index" json:"job_type_id,omitempty"`
	JobType        *JobType       `gorm:"constraint:OnDelete:SET NULL;foreignKey:JobTypeID;references:ID" json:"job_type,omitempty"`
	Description    string         `json:"description,omitempty"`
	StartAt        time.Time      `gorm:"not null;index" json:"start_at"`
	WorkersNeeded  int            `gorm:"not null;default:1" json:"workers_needed"`
	RequiredSkills datatypes.JSON `gorm:"type:jsonb" json:"required_skills,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Job) TableName() string { return "job" }

// StartYmd is the calendar date the job starts on, as YYYY-MM-DD. Same-day
// conflict checks compare on this, never on the full timestamp.
func (j *Job) StartYmd() string {
	return j.StartAt.Format("2006-01-02")
}
