package eligibility

import (
	"github.com/google/uuid"
)

type ConditionType string

const (
	ConditionExists                ConditionType = "exists"
	ConditionNotExists             ConditionType = "not_exists"
	ConditionExistsOrNone          ConditionType = "exists_or_none"
	ConditionNotExistsCategory     ConditionType = "not_exists_category"
	ConditionExistsAll             ConditionType = "exists_all"
	ConditionNotExistsUnlessExists ConditionType = "not_exists_unless_exists"
)

// Condition is a plugin's declarative contribution to the eligible-workers
// query: one predicate over the fact store, never executed directly by the
// plugin itself.
type Condition struct {
	Category string        `json:"category"`
	Type     ConditionType `json:"type"`
	// Value is the primary comparison value; its meaning depends on Type.
	Value string `json:"value,omitempty"`
	// Values widens Value to a set: every entry must hold for exists_all,
	// any entry may match for exists.
	Values []string `json:"values,omitempty"`
	// UnlessCategory/UnlessValue name the exemption fact that overrides a
	// not_exists_unless_exists block.
	UnlessCategory string `json:"unlessCategory,omitempty"`
	UnlessValue    string `json:"unlessValue,omitempty"`
}

// AppliedCondition tags a condition with the plugin that produced it, for
// the result payload and the debug SQL view.
type AppliedCondition struct {
	PluginID  string    `json:"pluginId"`
	Condition Condition `json:"condition"`
}

// PluginConfig is one entry of a job type's stored eligibility
// configuration.
type PluginConfig struct {
	PluginID string         `json:"pluginId"`
	Enabled  bool           `json:"enabled"`
	Config   map[string]any `json:"config,omitempty"`
}

// QueryContext carries the job attributes every plugin may need when
// producing its condition. Anything beyond these three (the job's start
// date, its required skills) a plugin fetches itself from storage.
type QueryContext struct {
	JobID      uuid.UUID
	EmployerID uuid.UUID
	JobTypeID  *uuid.UUID
}
