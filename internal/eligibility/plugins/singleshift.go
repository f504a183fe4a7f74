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

// SingleShift stops a worker holding two accepted dispatches that start the
// same day. Facts: the start date (YYYY-MM-DD) of every accepted dispatch.
// The block is waived when the worker's same-day acceptance is this very
// job, which is why the condition leans on the accepted category.
type SingleShift struct {
	log        *logger.Logger
	flags      *components.Cache
	facts      repos.EligibilityFactRepo
	dispatches repos.DispatchRepo
	jobs       repos.JobRepo
}

func NewSingleShift(deps Deps) *SingleShift {
	return &SingleShift{
		log:        deps.Log.With("plugin", "singleshift"),
		flags:      deps.Flags,
		facts:      deps.Facts,
		dispatches: deps.Dispatches,
		jobs:       deps.Jobs,
	}
}

func (p *SingleShift) ID() string          { return "singleshift" }
func (p *SingleShift) ComponentID() string { return ComponentSingleShift }

func (p *SingleShift) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Single Shift",
		Description: "Blocks workers already accepted on another job starting the same day.",
	}
}

func (p *SingleShift) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeDispatchSaved, WorkerID: workerIDFromPayload},
	}
}

func (p *SingleShift) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategorySingleShift, nil)
	}
	rows, err := p.dispatches.GetAcceptedByWorker(ctx, nil, workerID)
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Job == nil {
			continue
		}
		ymd := row.Job.StartYmd()
		if seen[ymd] {
			continue
		}
		seen[ymd] = true
		values = append(values, ymd)
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategorySingleShift, values)
}

func (p *SingleShift) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	job, err := p.jobs.GetWithRelations(ctx, nil, qc.JobID)
	if err != nil {
		return nil, fmt.Errorf("load job for singleshift condition: %w", err)
	}
	if job == nil {
		return nil, nil
	}
	return &eligibility.Condition{
		Category:       CategorySingleShift,
		Type:           eligibility.ConditionNotExistsUnlessExists,
		Value:          job.StartYmd(),
		UnlessCategory: CategoryAccepted,
		UnlessValue:    qc.JobID.String(),
	}, nil
}
