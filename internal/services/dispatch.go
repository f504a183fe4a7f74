package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/unionhall/sirius-backend/internal/events"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/types"
)

type DispatchService interface {
  DispatchWorker(ctx context.Context, workerID, jobID uuid.UUID) (*types.Dispatch, error)
  AcceptDispatch(ctx context.Context, dispatchID uuid.UUID) (*types.Dispatch, error)
  SetDispatchStatus(ctx context.Context, workerID uuid.UUID, status string) error
}

type dispatchService struct {
  db           *gorm.DB
  log          *logger.Logger
  emitter      *Emitter
  dispatchRepo repos.DispatchRepo
  statusRepo   repos.WorkerDispatchStatusRepo
  workerRepo   repos.WorkerRepo
  jobRepo      repos.JobRepo
}

func NewDispatchService(
  db *gorm.DB,
  log *logger.Logger,
  emitter *Emitter,
  dispatchRepo repos.DispatchRepo,
  statusRepo repos.WorkerDispatchStatusRepo,
  workerRepo repos.WorkerRepo,
  jobRepo repos.JobRepo,
) DispatchService {
  serviceLog := log.With("service", "DispatchService")
  return &dispatchService{
    db:           db,
    log:          serviceLog,
    emitter:      emitter,
    dispatchRepo: dispatchRepo,
    statusRepo:   statusRepo,
    workerRepo:   workerRepo,
    jobRepo:      jobRepo,
  }
}

func (s *dispatchService) DispatchWorker(ctx context.Context, workerID, jobID uuid.UUID) (*types.Dispatch, error) {
  worker, err := s.workerRepo.GetByID(ctx, nil, workerID)
  if err != nil {
    return nil, fmt.Errorf("load worker: %w", err)
  }
  if worker == nil {
    return nil, repos.ErrNotFound
  }
  job, err := s.jobRepo.GetWithRelations(ctx, nil, jobID)
  if err != nil {
    return nil, fmt.Errorf("load job: %w", err)
  }
  if job == nil {
    return nil, repos.ErrNotFound
  }

  dispatch := &types.Dispatch{WorkerID: workerID, JobID: jobID}
  created, err := s.dispatchRepo.Create(ctx, nil, []*types.Dispatch{dispatch})
  if err != nil {
    return nil, fmt.Errorf("create dispatch: %w", err)
  }
  dispatch = created[0]

  s.emitter.Emit(ctx, events.TypeDispatchSaved, events.DispatchSaved{
    WorkerID: dispatch.WorkerID,
    JobID:    dispatch.JobID,
    Accepted: dispatch.Accepted,
  })
  return dispatch, nil
}

func (s *dispatchService) AcceptDispatch(ctx context.Context, dispatchID uuid.UUID) (*types.Dispatch, error) {
  var dispatch types.Dispatch
  if err := s.db.WithContext(ctx).First(&dispatch, "id = ?", dispatchID).Error; err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, repos.ErrNotFound
    }
    return nil, fmt.Errorf("load dispatch: %w", err)
  }
  now := time.Now()
  dispatch.Accepted = true
  dispatch.AcceptedAt = &now
  if err := s.dispatchRepo.Update(ctx, nil, &dispatch); err != nil {
    return nil, fmt.Errorf("update dispatch: %w", err)
  }

  s.emitter.Emit(ctx, events.TypeDispatchSaved, events.DispatchSaved{
    WorkerID: dispatch.WorkerID,
    JobID:    dispatch.JobID,
    Accepted: true,
  })
  return &dispatch, nil
}

func (s *dispatchService) SetDispatchStatus(ctx context.Context, workerID uuid.UUID, status string) error {
  switch status {
  case types.DispatchStatusAvailable, types.DispatchStatusUnavailable, types.DispatchStatusWorking:
  default:
    return fmt.Errorf("%w: unknown dispatch status %q", repos.ErrPrecondition, status)
  }
  if _, err := s.statusRepo.Upsert(ctx, nil, workerID, status); err != nil {
    return fmt.Errorf("upsert dispatch status: %w", err)
  }
  s.emitter.Emit(ctx, events.TypeDispatchStatusSaved, events.DispatchStatusSaved{
    WorkerID: workerID,
    Status:   status,
  })
  return nil
}
