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

// Accepted is a hidden supporting plugin. It contributes no condition of its
// own; it maintains the accepted-dispatch facts that the single-shift plugin
// references through its exemption clause. Facts: one row per accepted
// dispatch, value = job id.
type Accepted struct {
	log        *logger.Logger
	flags      *components.Cache
	facts      repos.EligibilityFactRepo
	dispatches repos.DispatchRepo
}

func NewAccepted(deps Deps) *Accepted {
	return &Accepted{
		log:        deps.Log.With("plugin", "accepted"),
		flags:      deps.Flags,
		facts:      deps.Facts,
		dispatches: deps.Dispatches,
	}
}

func (p *Accepted) ID() string          { return "accepted" }
func (p *Accepted) ComponentID() string { return ComponentAccepted }

func (p *Accepted) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Accepted Dispatches",
		Description: "Tracks jobs a worker has accepted. Supporting data for other rules.",
		Hidden:      true,
	}
}

func (p *Accepted) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeDispatchSaved, WorkerID: workerIDFromPayload},
	}
}

func (p *Accepted) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryAccepted, nil)
	}
	dispatches, err := p.dispatches.GetAcceptedByWorker(ctx, nil, workerID)
	if err != nil {
		return err
	}
	values := make([]string, 0, len(dispatches))
	for _, d := range dispatches {
		values = append(values, d.JobID.String())
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryAccepted, values)
}

func (p *Accepted) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	return nil, nil
}
