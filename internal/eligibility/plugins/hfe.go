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

// HFE reserves a worker for one employer. A worker with no holds is open to
// everyone; a worker with holds only matches jobs from a held employer.
type HFE struct {
	log   *logger.Logger
	flags *components.Cache
	facts repos.EligibilityFactRepo
	hfe   repos.WorkerHFERepo
}

func NewHFE(deps Deps) *HFE {
	return &HFE{
		log:   deps.Log.With("plugin", "hfe"),
		flags: deps.Flags,
		facts: deps.Facts,
		hfe:   deps.HFE,
	}
}

func (p *HFE) ID() string          { return "hfe" }
func (p *HFE) ComponentID() string { return ComponentHFE }

func (p *HFE) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Hold for Employer",
		Description: "Limits held workers to the employer holding them.",
	}
}

func (p *HFE) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeHFESaved, WorkerID: workerIDFromPayload},
	}
}

func (p *HFE) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryHFE, nil)
	}
	rows, err := p.hfe.GetByWorker(ctx, nil, workerID)
	if err != nil {
		return err
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.EmployerID.String())
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryHFE, values)
}

func (p *HFE) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	return &eligibility.Condition{
		Category: CategoryHFE,
		Type:     eligibility.ConditionExistsOrNone,
		Value:    qc.EmployerID.String(),
	}, nil
}
