package types

import (
	"time"
)

// Component is a feature-flag node. IDs are dotted paths
// ("dispatch.eligibility.dnc"); ParentID links the inheritance chain, and a
// component is effectively on only when every ancestor is on too.
type Component struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ParentID  *string   `gorm:"index" json:"parent_id,omitempty"`
	Enabled   bool      `gorm:"not null;default:false" json:"enabled"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Component) TableName() string { return "component" }
