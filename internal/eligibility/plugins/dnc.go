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

// DNC blocks a worker from employers that have a do-not-call entry against
// them. Facts: one row per DNC'd employer id.
type DNC struct {
	log   *logger.Logger
	flags *components.Cache
	facts repos.EligibilityFactRepo
	dnc   repos.WorkerDNCRepo
}

func NewDNC(deps Deps) *DNC {
	return &DNC{
		log:   deps.Log.With("plugin", "dnc"),
		flags: deps.Flags,
		facts: deps.Facts,
		dnc:   deps.DNC,
	}
}

func (p *DNC) ID() string          { return "dnc" }
func (p *DNC) ComponentID() string { return ComponentDNC }

func (p *DNC) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Do Not Call",
		Description: "Excludes workers the employer has flagged as do-not-call.",
	}
}

func (p *DNC) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeDNCSaved, WorkerID: workerIDFromPayload},
	}
}

func (p *DNC) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryDNC, nil)
	}
	rows, err := p.dnc.GetByWorker(ctx, nil, workerID)
	if err != nil {
		return err
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.EmployerID.String())
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryDNC, values)
}

func (p *DNC) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	return &eligibility.Condition{
		Category: CategoryDNC,
		Type:     eligibility.ConditionNotExists,
		Value:    qc.EmployerID.String(),
	}, nil
}
