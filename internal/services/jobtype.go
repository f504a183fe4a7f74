package services

import (
  "context"
  "encoding/json"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/unionhall/sirius-backend/internal/eligibility"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/types"
)

type JobTypeService interface {
  Get(ctx context.Context, id uuid.UUID) (*types.JobType, error)
  // SetEligibility replaces the job type's plugin configuration. Unknown
  // plugin ids are rejected up front rather than silently skipped at query
  // time.
  SetEligibility(ctx context.Context, id uuid.UUID, configs []eligibility.PluginConfig) (*types.JobType, error)
}

type jobTypeService struct {
  db          *gorm.DB
  log         *logger.Logger
  jobTypeRepo repos.JobTypeRepo
  registry    *eligibility.Registry
}

func NewJobTypeService(db *gorm.DB, log *logger.Logger, jobTypeRepo repos.JobTypeRepo, registry *eligibility.Registry) JobTypeService {
  serviceLog := log.With("service", "JobTypeService")
  return &jobTypeService{db: db, log: serviceLog, jobTypeRepo: jobTypeRepo, registry: registry}
}

func (s *jobTypeService) Get(ctx context.Context, id uuid.UUID) (*types.JobType, error) {
  return s.jobTypeRepo.GetByID(ctx, nil, id)
}

func (s *jobTypeService) SetEligibility(ctx context.Context, id uuid.UUID, configs []eligibility.PluginConfig) (*types.JobType, error) {
  for _, cfg := range configs {
    if _, ok := s.registry.Get(cfg.PluginID); !ok {
      return nil, fmt.Errorf("%w: unknown eligibility plugin %q", repos.ErrPrecondition, cfg.PluginID)
    }
  }
  jobType, err := s.jobTypeRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("load job type: %w", err)
  }
  if jobType == nil {
    return nil, fmt.Errorf("%w: job type %s", repos.ErrNotFound, id)
  }
  raw, err := json.Marshal(configs)
  if err != nil {
    return nil, fmt.Errorf("encode eligibility config: %w", err)
  }
  jobType.Eligibility = raw
  if err := s.jobTypeRepo.Update(ctx, nil, jobType); err != nil {
    return nil, fmt.Errorf("update job type: %w", err)
  }
  return jobType, nil
}
