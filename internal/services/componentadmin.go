package services

import (
  "context"
  "fmt"

  "gorm.io/gorm"

  "github.com/unionhall/sirius-backend/internal/components"
  "github.com/unionhall/sirius-backend/internal/eligibility"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/types"
)

// ComponentAdminService flips feature flags at runtime. Toggling reloads the
// cache and walks every worker through every registered plugin, so a freshly
// disabled plugin clears its facts and a freshly enabled one rebuilds them.
type ComponentAdminService interface {
  List(ctx context.Context) ([]*types.Component, error)
  SetEnabled(ctx context.Context, componentID string, enabled bool) error
}

type componentAdminService struct {
  db       *gorm.DB
  log      *logger.Logger
  repo     repos.ComponentRepo
  flags    *components.Cache
  registry *eligibility.Registry
  workers  repos.WorkerRepo
}

func NewComponentAdminService(
  db *gorm.DB,
  log *logger.Logger,
  repo repos.ComponentRepo,
  flags *components.Cache,
  registry *eligibility.Registry,
  workers repos.WorkerRepo,
) ComponentAdminService {
  serviceLog := log.With("service", "ComponentAdminService")
  return &componentAdminService{
    db:       db,
    log:      serviceLog,
    repo:     repo,
    flags:    flags,
    registry: registry,
    workers:  workers,
  }
}

func (s *componentAdminService) List(ctx context.Context) ([]*types.Component, error) {
  return s.repo.GetAll(ctx, nil)
}

func (s *componentAdminService) SetEnabled(ctx context.Context, componentID string, enabled bool) error {
  if err := s.repo.SetEnabled(ctx, nil, componentID, enabled); err != nil {
    return fmt.Errorf("set component %q: %w", componentID, err)
  }
  if err := s.flags.Load(ctx); err != nil {
    return fmt.Errorf("reload component flags: %w", err)
  }
  s.log.Info("component toggled", "component_id", componentID, "enabled", enabled)

  ids, err := s.workers.AllIDs(ctx, nil)
  if err != nil {
    return fmt.Errorf("list workers for recompute: %w", err)
  }
  for _, workerID := range ids {
    if err := ctx.Err(); err != nil {
      return err
    }
    s.registry.RecomputeWorkerForAllPlugins(ctx, workerID)
  }
  return nil
}
