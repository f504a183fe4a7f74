package eligibility

import (
	"context"

	"github.com/google/uuid"

	"github.com/unionhall/sirius-backend/internal/events"
)

// ConfigField describes one knob of a plugin's per-job-type configuration,
// consumed by the admin UI when building job-type forms.
type ConfigField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	// Kind selects the form control: "workStatusMultiSelect", "text", ...
	Kind string `json:"kind"`
}

// Metadata is a plugin's display surface. Hidden plugins are registered for
// their event side effects but excluded from the job-type plugin picker.
type Metadata struct {
	Name         string        `json:"name,omitempty"`
	Description  string        `json:"description,omitempty"`
	Hidden       bool          `json:"hidden,omitempty"`
	ConfigFields []ConfigField `json:"configFields,omitempty"`
}

// EventHandler declares one domain event a plugin wants recomputes for, and
// how to pull the affected worker id out of that event's payload.
type EventHandler struct {
	Event    events.Type
	WorkerID func(payload any) (uuid.UUID, bool)
}

// Plugin is one self-contained eligibility rule. It owns one or more fact
// categories exclusively: RecomputeWorker fully replaces that worker's rows
// in those categories, and Condition contributes the query predicate that
// reads them back.
//
// RecomputeWorker must be idempotent, and when the plugin's component is
// disabled it must leave the worker with zero facts in its categories so a
// switched-off rule imposes no restriction.
type Plugin interface {
	ID() string
	ComponentID() string
	Metadata() Metadata
	EventHandlers() []EventHandler
	RecomputeWorker(ctx context.Context, workerID uuid.UUID) error
	// Condition returns nil when the plugin imposes no restriction for this
	// job (missing config always fails open).
	Condition(ctx context.Context, qc QueryContext, config map[string]any) (*Condition, error)
}

// PluginMetadata is the read-only projection the admin UI lists plugins
// with.
type PluginMetadata struct {
	ID               string        `json:"id"`
	Name             string        `json:"name,omitempty"`
	Description      string        `json:"description,omitempty"`
	ComponentID      string        `json:"componentId"`
	ComponentEnabled bool          `json:"componentEnabled"`
	Hidden           bool          `json:"hidden,omitempty"`
	ConfigFields     []ConfigField `json:"configFields,omitempty"`
}
