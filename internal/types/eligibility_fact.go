package types

import (
	"time"
	"github.com/google/uuid"
)

// EligibilityFact is one denormalized (worker, category, value) tuple in the
// fact store. Rows are only ever written by a plugin replacing its whole
// category for one worker, so there is no uniqueness constraint and no soft
// delete here.
type EligibilityFact struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_fact_worker_category" json:"worker_id"`
	Category  string    `gorm:"not null;index:idx_fact_worker_category;index:idx_fact_category_value" json:"category"`
	Value     string    `gorm:"not null;index:idx_fact_category_value" json:"value"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (EligibilityFact) TableName() string { return "eligibility_fact" }
