package plugins

import (
	"context"

	"github.com/google/uuid"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/eligibility"
	"github.com/unionhall/sirius-backend/internal/events"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
)

// WorkStatus gates dispatch on the worker's work-status catalog entry. The
// job type configures which status ids qualify; none configured means no
// restriction. Facts: the worker's current work-status id, one row at most.
type WorkStatus struct {
	log     *logger.Logger
	flags   *components.Cache
	facts   repos.EligibilityFactRepo
	workers repos.WorkerRepo
}

func NewWorkStatus(deps Deps) *WorkStatus {
	return &WorkStatus{
		log:     deps.Log.With("plugin", "ws"),
		flags:   deps.Flags,
		facts:   deps.Facts,
		workers: deps.Workers,
	}
}

func (p *WorkStatus) ID() string          { return "ws" }
func (p *WorkStatus) ComponentID() string { return ComponentWorkStatus }

func (p *WorkStatus) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Work Status",
		Description: "Limits dispatch to the work statuses this job type accepts.",
		ConfigFields: []eligibility.ConfigField{
			{Key: "eligibleWorkStatuses", Label: "Eligible work statuses", Kind: "workStatusMultiSelect"},
		},
	}
}

func (p *WorkStatus) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeWorkerWorkStatusChanged, WorkerID: workerIDFromPayload},
	}
}

func (p *WorkStatus) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryWorkStatus, nil)
	}
	worker, err := p.workers.GetByID(ctx, nil, workerID)
	if err != nil {
		return err
	}
	var values []string
	if worker != nil && worker.WorkStatusID != nil {
		values = []string{worker.WorkStatusID.String()}
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryWorkStatus, values)
}

func (p *WorkStatus) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	statuses := stringSlice(config["eligibleWorkStatuses"])
	if len(statuses) == 0 {
		return nil, nil
	}
	return &eligibility.Condition{
		Category: CategoryWorkStatus,
		Type:     eligibility.ConditionExists,
		Values:   statuses,
	}, nil
}

// stringSlice tolerates both []string and the []any that JSON decoding of a
// job-type config produces.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
