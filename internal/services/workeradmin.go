package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/unionhall/sirius-backend/internal/eligibility"
  "github.com/unionhall/sirius-backend/internal/events"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/types"
)

// WorkerAdminService covers the hall-operator writes that feed eligibility:
// do-not-call and hold-for-employer lists, skills, work status, and EBA
// availability. Every write emits the matching event so facts stay current.
type WorkerAdminService interface {
  AddDNC(ctx context.Context, workerID, employerID uuid.UUID, reason string) error
  RemoveDNC(ctx context.Context, workerID, employerID uuid.UUID) error
  AddHFE(ctx context.Context, workerID, employerID uuid.UUID) error
  RemoveHFE(ctx context.Context, workerID, employerID uuid.UUID) error
  AddSkill(ctx context.Context, workerID, skillID uuid.UUID) error
  RemoveSkill(ctx context.Context, workerID, skillID uuid.UUID) error
  SetWorkStatus(ctx context.Context, workerID uuid.UUID, workStatusID *uuid.UUID) error
  AddAvailability(ctx context.Context, workerID uuid.UUID, dates []string) error
  // RecomputeEligibility rebuilds every plugin's facts for one worker. The
  // operator escape hatch for facts that drifted outside the event flow.
  RecomputeEligibility(ctx context.Context, workerID uuid.UUID) error
}

type workerAdminService struct {
  db               *gorm.DB
  log              *logger.Logger
  emitter          *Emitter
  registry         *eligibility.Registry
  workerRepo       repos.WorkerRepo
  dncRepo          repos.WorkerDNCRepo
  hfeRepo          repos.WorkerHFERepo
  skillRepo        repos.WorkerSkillRepo
  availabilityRepo repos.WorkerAvailabilityRepo
}

func NewWorkerAdminService(
  db *gorm.DB,
  log *logger.Logger,
  emitter *Emitter,
  registry *eligibility.Registry,
  workerRepo repos.WorkerRepo,
  dncRepo repos.WorkerDNCRepo,
  hfeRepo repos.WorkerHFERepo,
  skillRepo repos.WorkerSkillRepo,
  availabilityRepo repos.WorkerAvailabilityRepo,
) WorkerAdminService {
  serviceLog := log.With("service", "WorkerAdminService")
  return &workerAdminService{
    db:               db,
    log:              serviceLog,
    emitter:          emitter,
    registry:         registry,
    workerRepo:       workerRepo,
    dncRepo:          dncRepo,
    hfeRepo:          hfeRepo,
    skillRepo:        skillRepo,
    availabilityRepo: availabilityRepo,
  }
}

func (s *workerAdminService) AddDNC(ctx context.Context, workerID, employerID uuid.UUID, reason string) error {
  entry := &types.WorkerDNC{WorkerID: workerID, EmployerID: employerID, Reason: reason}
  if _, err := s.dncRepo.Create(ctx, nil, []*types.WorkerDNC{entry}); err != nil {
    return fmt.Errorf("create dnc entry: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeDNCSaved, events.DNCSaved{WorkerID: workerID, EmployerID: employerID})
  return nil
}

func (s *workerAdminService) RemoveDNC(ctx context.Context, workerID, employerID uuid.UUID) error {
  if err := s.dncRepo.DeleteByWorkerAndEmployer(ctx, nil, workerID, employerID); err != nil {
    return fmt.Errorf("delete dnc entry: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeDNCSaved, events.DNCSaved{WorkerID: workerID, EmployerID: employerID, Removed: true})
  return nil
}

func (s *workerAdminService) AddHFE(ctx context.Context, workerID, employerID uuid.UUID) error {
  entry := &types.WorkerHFE{WorkerID: workerID, EmployerID: employerID}
  if _, err := s.hfeRepo.Create(ctx, nil, []*types.WorkerHFE{entry}); err != nil {
    return fmt.Errorf("create hfe entry: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeHFESaved, events.HFESaved{WorkerID: workerID, EmployerID: employerID})
  return nil
}

func (s *workerAdminService) RemoveHFE(ctx context.Context, workerID, employerID uuid.UUID) error {
  if err := s.hfeRepo.DeleteByWorkerAndEmployer(ctx, nil, workerID, employerID); err != nil {
    return fmt.Errorf("delete hfe entry: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeHFESaved, events.HFESaved{WorkerID: workerID, EmployerID: employerID, Removed: true})
  return nil
}

func (s *workerAdminService) AddSkill(ctx context.Context, workerID, skillID uuid.UUID) error {
  entry := &types.WorkerSkill{WorkerID: workerID, SkillID: skillID}
  if _, err := s.skillRepo.Create(ctx, nil, []*types.WorkerSkill{entry}); err != nil {
    return fmt.Errorf("create worker skill: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeWorkerSkillSaved, events.WorkerSkillSaved{WorkerID: workerID, SkillID: skillID})
  return nil
}

func (s *workerAdminService) RemoveSkill(ctx context.Context, workerID, skillID uuid.UUID) error {
  if err := s.skillRepo.DeleteByWorkerAndSkill(ctx, nil, workerID, skillID); err != nil {
    return fmt.Errorf("delete worker skill: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeWorkerSkillSaved, events.WorkerSkillSaved{WorkerID: workerID, SkillID: skillID, Removed: true})
  return nil
}

func (s *workerAdminService) SetWorkStatus(ctx context.Context, workerID uuid.UUID, workStatusID *uuid.UUID) error {
  worker, err := s.workerRepo.GetByID(ctx, nil, workerID)
  if err != nil {
    return fmt.Errorf("load worker: %w", err)
  }
  if worker == nil {
    return repos.ErrNotFound
  }
  worker.WorkStatusID = workStatusID
  if err := s.workerRepo.Update(ctx, nil, worker); err != nil {
    return fmt.Errorf("update worker: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeWorkerWorkStatusChanged, events.WorkerWorkStatusChanged{
    WorkerID:     workerID,
    WorkStatusID: workStatusID,
  })
  return nil
}

func (s *workerAdminService) AddAvailability(ctx context.Context, workerID uuid.UUID, dates []string) error {
  entries := make([]*types.WorkerAvailability, 0, len(dates))
  for _, d := range dates {
    on, err := types.ParseYmd(d)
    if err != nil {
      return fmt.Errorf("%w: bad availability date %q", repos.ErrPrecondition, d)
    }
    entries = append(entries, &types.WorkerAvailability{WorkerID: workerID, AvailableOn: on})
  }
  if len(entries) == 0 {
    return nil
  }
  if _, err := s.availabilityRepo.Create(ctx, nil, entries); err != nil {
    return fmt.Errorf("create availability: %w", err)
  }
  for _, e := range entries {
    s.emitter.Emit(ctx, events.TypeEBASaved, events.EBASaved{WorkerID: workerID, AvailableOn: e.AvailableYmd()})
  }
  return nil
}

func (s *workerAdminService) RecomputeEligibility(ctx context.Context, workerID uuid.UUID) error {
  worker, err := s.workerRepo.GetByID(ctx, nil, workerID)
  if err != nil {
    return fmt.Errorf("load worker: %w", err)
  }
  if worker == nil {
    return fmt.Errorf("%w: worker %s", repos.ErrNotFound, workerID)
  }
  s.registry.RecomputeWorkerForAllPlugins(ctx, workerID)
  return nil
}
