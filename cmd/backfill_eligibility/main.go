package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/db"
	"github.com/unionhall/sirius-backend/internal/eligibility"
	"github.com/unionhall/sirius-backend/internal/eligibility/plugins"
	"github.com/unionhall/sirius-backend/internal/events"
	"github.com/unionhall/sirius-backend/internal/logger"
	"github.com/unionhall/sirius-backend/internal/repos"
)

// Rebuilds fact categories from their source tables. Run once when a plugin
// ships after its source data already exists, or after a bulk data import.
func main() {
	var which string
	var dryRun bool
	flag.StringVar(&which, "plugins", "skill,eba,singleshift,accepted", "comma-separated plugin ids to backfill")
	flag.BoolVar(&dryRun, "dry-run", false, "report which workers would be backfilled without writing facts")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	workerRepo := repos.NewWorkerRepo(thePG, log)
	jobRepo := repos.NewJobRepo(thePG, log)
	dispatchRepo := repos.NewDispatchRepo(thePG, log)
	dncRepo := repos.NewWorkerDNCRepo(thePG, log)
	hfeRepo := repos.NewWorkerHFERepo(thePG, log)
	statusRepo := repos.NewWorkerDispatchStatusRepo(thePG, log)
	skillRepo := repos.NewWorkerSkillRepo(thePG, log)
	availabilityRepo := repos.NewWorkerAvailabilityRepo(thePG, log)
	factRepo := repos.NewEligibilityFactRepo(thePG, log)
	componentRepo := repos.NewComponentRepo(thePG, log)

	ctx := context.Background()
	flags := components.NewCache(componentRepo, log)
	if err := flags.Load(ctx); err != nil {
		log.Error("Component flag load failed", "error", err)
		os.Exit(1)
	}

	bus := events.NewBus(log)
	registry := eligibility.NewRegistry(bus, flags, log)
	plugins.RegisterAll(registry, plugins.Deps{
		DB:           thePG,
		Log:          log,
		Flags:        flags,
		Facts:        factRepo,
		Workers:      workerRepo,
		Jobs:         jobRepo,
		Dispatches:   dispatchRepo,
		DNC:          dncRepo,
		HFE:          hfeRepo,
		Status:       statusRepo,
		Skills:       skillRepo,
		Availability: availabilityRepo,
	})

	backfiller := eligibility.NewBackfiller(registry, flags, factRepo, dispatchRepo, skillRepo, availabilityRepo, log)
	backfiller.DryRun = dryRun

	type run struct {
		name string
		fn   func(context.Context) (*eligibility.Report, error)
	}
	available := map[string]run{
		"skill": {"skill", func(ctx context.Context) (*eligibility.Report, error) {
			return backfiller.BackfillSkillFacts(ctx, "skill", plugins.CategorySkill)
		}},
		"eba": {"eba", func(ctx context.Context) (*eligibility.Report, error) {
			return backfiller.BackfillEBAFacts(ctx, "eba", plugins.CategoryEBA)
		}},
		"singleshift": {"singleshift", func(ctx context.Context) (*eligibility.Report, error) {
			return backfiller.BackfillDispatchFacts(ctx, "singleshift", plugins.CategorySingleShift)
		}},
		"accepted": {"accepted", func(ctx context.Context) (*eligibility.Report, error) {
			return backfiller.BackfillDispatchFacts(ctx, "accepted", plugins.CategoryAccepted)
		}},
	}

	var runs []run
	for _, name := range strings.Split(which, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r, ok := available[name]
		if !ok {
			fmt.Printf("unknown plugin %q (have: skill, eba, singleshift, accepted)\n", name)
			os.Exit(1)
		}
		runs = append(runs, r)
	}

	reports := make([]*eligibility.Report, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range runs {
		g.Go(func() error {
			report, err := r.fn(gctx)
			if err != nil {
				return fmt.Errorf("backfill %s: %w", r.name, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Backfill failed", "error", err)
		os.Exit(1)
	}

	for _, report := range reports {
		out, _ := json.Marshal(report)
		fmt.Println(string(out))
	}
}
