package plugins

import (
	"context"

	"github.com/google/uuid"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/eligibility"
	"github.com/unionhall/sirius-backend/internal/events"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
	"github.com/unionhall/sirius-backend/internal/types"
)

// DispatchStatus requires a worker to be marked Available on the dispatch
// board. Facts: the worker's current status label, one row at most.
type DispatchStatus struct {
	log    *logger.Logger
	flags  *components.Cache
	facts  repos.EligibilityFactRepo
	status repos.WorkerDispatchStatusRepo
}

func NewDispatchStatus(deps Deps) *DispatchStatus {
	return &DispatchStatus{
		log:    deps.Log.With("plugin", "dispstatus"),
		flags:  deps.Flags,
		facts:  deps.Facts,
		status: deps.Status,
	}
}

func (p *DispatchStatus) ID() string          { return "dispstatus" }
func (p *DispatchStatus) ComponentID() string { return ComponentDispatchStatus }

func (p *DispatchStatus) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Dispatch Status",
		Description: "Only workers currently marked Available are dispatched.",
	}
}

func (p *DispatchStatus) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeDispatchStatusSaved, WorkerID: workerIDFromPayload},
	}
}

func (p *DispatchStatus) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryDispatchStatus, nil)
	}
	row, err := p.status.GetByWorker(ctx, nil, workerID)
	if err != nil {
		return err
	}
	var values []string
	if row != nil && row.Status != "" {
		values = []string{row.Status}
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryDispatchStatus, values)
}

func (p *DispatchStatus) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	return &eligibility.Condition{
		Category: CategoryDispatchStatus,
		Type:     eligibility.ConditionExists,
		Value:    types.DispatchStatusAvailable,
	}, nil
}
