package plugins

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/eligibility"
	"github.com/unionhall/sirius-backend/internal/events"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
)

// Skill requires a worker to hold every skill the job lists. Facts: one row
// per assigned skill id. A job with no required skills imposes nothing.
type Skill struct {
	log    *logger.Logger
	flags  *components.Cache
	facts  repos.EligibilityFactRepo
	skills repos.WorkerSkillRepo
	jobs   repos.JobRepo
}

func NewSkill(deps Deps) *Skill {
	return &Skill{
		log:    deps.Log.With("plugin", "skill"),
		flags:  deps.Flags,
		facts:  deps.Facts,
		skills: deps.Skills,
		jobs:   deps.Jobs,
	}
}

func (p *Skill) ID() string          { return "skill" }
func (p *Skill) ComponentID() string { return ComponentSkill }

func (p *Skill) Metadata() eligibility.Metadata {
	return eligibility.Metadata{
		Name:        "Required Skills",
		Description: "Workers must hold every skill the job requires.",
	}
}

func (p *Skill) EventHandlers() []eligibility.EventHandler {
	return []eligibility.EventHandler{
		{Event: events.TypeWorkerSkillSaved, WorkerID: workerIDFromPayload},
	}
}

func (p *Skill) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
	if !p.flags.IsEnabled(p.ComponentID()) {
		return p.facts.ReplaceForWorker(ctx, nil, workerID, CategorySkill, nil)
	}
	rows, err := p.skills.GetByWorker(ctx, nil, workerID)
	if err != nil {
		return err
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.SkillID.String())
	}
	return p.facts.ReplaceForWorker(ctx, nil, workerID, CategorySkill, values)
}

func (p *Skill) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
	job, err := p.jobs.GetWithRelations(ctx, nil, qc.JobID)
	if err != nil {
		return nil, fmt.Errorf("load job for skill condition: %w", err)
	}
	if job == nil || len(job.RequiredSkills) == 0 {
		return nil, nil
	}

	var required []string
	if err := json.Unmarshal(job.RequiredSkills, &required); err != nil {
		return nil, fmt.Errorf("parse required skills: %w", err)
	}
	if len(required) == 0 {
		return nil, nil
	}

	return &eligibility.Condition{
		Category: CategorySkill,
		Type:     eligibility.ConditionExistsAll,
		Values:   required,
	}, nil
}
