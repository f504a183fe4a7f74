package eligibility

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
)

// Report summarizes one backfill run for one plugin.
type Report struct {
	Plugin           string `json:"plugin"`
	WorkersProcessed int    `json:"workersProcessed"`
	EntriesCreated   int64  `json:"entriesCreated"`
	DryRun           bool   `json:"dryRun,omitempty"`
}

// Backfiller rebuilds fact categories from source tables. It exists for
// plugins rolled out after the source data already accumulated; steady-state
// maintenance stays with the event handlers.
type Backfiller struct {
	// DryRun reports which workers a backfill would touch without writing
	// any facts. The registration and flag guards still apply.
	DryRun bool

	log          *logger.Logger
	flags        *components.Cache
	registry     *Registry
	facts        repos.EligibilityFactRepo
	dispatches   repos.DispatchRepo
	skills       repos.WorkerSkillRepo
	availability repos.WorkerAvailabilityRepo
}

func NewBackfiller(
	registry *Registry,
	flags *components.Cache,
	facts repos.EligibilityFactRepo,
	dispatches repos.DispatchRepo,
	skills repos.WorkerSkillRepo,
	availability repos.WorkerAvailabilityRepo,
	baseLog *logger.Logger,
) *Backfiller {
	return &Backfiller{
		log:          baseLog.With("component", "eligibility_backfill"),
		flags:        flags,
		registry:     registry,
		facts:        facts,
		dispatches:   dispatches,
		skills:       skills,
		availability: availability,
	}
}

// BackfillSkillFacts rebuilds the skill category for every worker that has at
// least one skill row.
func (b *Backfiller) BackfillSkillFacts(ctx context.Context, pluginID, category string) (*Report, error) {
	ids, err := b.skills.DistinctWorkerIDs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list workers with skills: %w", err)
	}
	return b.run(ctx, pluginID, category, ids)
}

// BackfillEBAFacts rebuilds the availability-date category for every worker
// with declared availability.
func (b *Backfiller) BackfillEBAFacts(ctx context.Context, pluginID, category string) (*Report, error) {
	ids, err := b.availability.DistinctWorkerIDs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list workers with availability: %w", err)
	}
	return b.run(ctx, pluginID, category, ids)
}

// BackfillDispatchFacts rebuilds a dispatch-derived category (accepted jobs,
// single-shift dates) for every worker with an accepted dispatch.
func (b *Backfiller) BackfillDispatchFacts(ctx context.Context, pluginID, category string) (*Report, error) {
	ids, err := b.dispatches.DistinctAcceptedWorkerIDs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list workers with accepted dispatches: %w", err)
	}
	return b.run(ctx, pluginID, category, ids)
}

func (b *Backfiller) run(ctx context.Context, pluginID, category string, workerIDs []uuid.UUID) (*Report, error) {
	if !b.flags.Initialized() {
		return nil, fmt.Errorf("component flags not loaded, refusing to backfill %q", pluginID)
	}
	plugin, ok := b.registry.Get(pluginID)
	if !ok {
		return nil, fmt.Errorf("plugin %q is not registered", pluginID)
	}
	if !b.flags.IsEnabled(plugin.ComponentID()) {
		return nil, fmt.Errorf("component %q is disabled, refusing to backfill", plugin.ComponentID())
	}

	report := &Report{Plugin: pluginID, DryRun: b.DryRun}
	if b.DryRun {
		report.WorkersProcessed = len(workerIDs)
		b.log.Info("backfill dry run, nothing written", "plugin", pluginID, "workers", report.WorkersProcessed)
		return report, nil
	}
	for _, workerID := range workerIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := b.registry.RecomputeWorker(ctx, plugin, workerID); err != nil {
			b.log.Warn("backfill recompute failed", "plugin", pluginID, "worker_id", workerID, "error", err)
			continue
		}
		report.WorkersProcessed++
	}

	count, err := b.facts.CountByCategory(ctx, nil, category)
	if err != nil {
		return report, fmt.Errorf("count %q facts: %w", category, err)
	}
	report.EntriesCreated = count
	b.log.Info("backfill complete", "plugin", pluginID, "workers", report.WorkersProcessed, "entries", report.EntriesCreated)
	return report, nil
}
