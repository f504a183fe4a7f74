package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type WorkerAvailabilityRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerAvailability) ([]*types.WorkerAvailability, error)
  GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerAvailability, error)
  DistinctWorkerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
}

type workerAvailabilityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkerAvailabilityRepo(db *gorm.DB, baseLog *logger.Logger) WorkerAvailabilityRepo {
  repoLog := baseLog.With("repo", "WorkerAvailabilityRepo")
  return &workerAvailabilityRepo{db: db, log: repoLog}
}

func (r *workerAvailabilityRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerAvailability) ([]*types.WorkerAvailability, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(entries) == 0 {
    return []*types.WorkerAvailability{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, classify(err)
  }
  return entries, nil
}

func (r *workerAvailabilityRepo) GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerAvailability, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.WorkerAvailability
  if workerID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("worker_id = ?", workerID).
    Order("available_on").
    Find(&results).Error; err != nil {
    return nil, classify(err)
  }
  return results, nil
}

func (r *workerAvailabilityRepo) DistinctWorkerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.WorkerAvailability{}).
    Distinct("worker_id").
    Pluck("worker_id", &ids).Error; err != nil {
    return nil, classify(err)
  }
  return ids, nil
}
