package plugins

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/eligibility"
	"github.com/unionhall/sirius-backend/internal/events"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
)

// EBA ("Employed but Available") opens a job only to workers who declared
// availability for its start date. Facts: one row per declared date,
// YYYY-MM-DD.
type EBA struct {
	log          *logger.Logger
	flags        *components.Cache
	facts        repos.EligibilityFactRepo
	availability repos.WorkerAvailabilityRepo
	jobs         repos.JobRepo
}

func NewEBA(deps Deps) *EBA {
	return &EBA{
		log:          deps.Log.With("plugin", "eba"),
		flags:        deps.Flags,
		facts:        deps.Facts,
		availability: deps.Availability,
		jobs:         deps.Jobs,
	}
}

func (p *EBA) ID() string          { return "eba" }
func (p *EBA) ComponentID() string { return ComponentEBA }

func (p *EBA) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Employed but Available",
		Description: "Only workers who declared availability for the job's start date.",
	}
}

func (p *EBA) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeEBASaved, WorkerID: workerIDFromPayload},
	}
}

func (p *EBA) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryEBA, nil)
	}
	rows, err := p.availability.GetByWorker(ctx, nil, workerID)
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		ymd := row.AvailableYmd()
		if seen[ymd] {
			continue
		}
		seen[ymd] = true
		values = append(values, ymd)
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategoryEBA, values)
}

func (p *EBA) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	job, err := p.jobs.GetWithRelations(ctx, nil, qc.JobID)
	if err != nil {
		return nil, fmt.Errorf("load job for eba condition: %w", err)
	}
	if job == nil {
		return nil, nil
	}
	return &eligibility.Condition{
		Category: CategoryEBA,
		Type:     eligibility.ConditionExists,
		Value:    job.StartYmd(),
	}, nil
}
