package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type WorkerDispatchStatusRepo interface {
  GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) (*types.WorkerDispatchStatus, error)
  Upsert(ctx context.Context, tx *gorm.DB, workerID uuid.UUID, status string) (*types.WorkerDispatchStatus, error)
}

type workerDispatchStatusRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkerDispatchStatusRepo(db *gorm.DB, baseLog *logger.Logger) WorkerDispatchStatusRepo {
  repoLog := baseLog.With("repo", "WorkerDispatchStatusRepo")
  return &workerDispatchStatusRepo{db: db, log: repoLog}
}

func (r *workerDispatchStatusRepo) GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) (*types.WorkerDispatchStatus, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if workerID == uuid.Nil {
    return nil, nil
  }

  var row types.WorkerDispatchStatus
  err := transaction.WithContext(ctx).
    Where("worker_id = ?", workerID).
    First(&row).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, classify(err)
  }
  return &row, nil
}

func (r *workerDispatchStatusRepo) Upsert(ctx context.Context, tx *gorm.DB, workerID uuid.UUID, status string) (*types.WorkerDispatchStatus, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if workerID == uuid.Nil || status == "" {
    return nil, nil
  }

  row := &types.WorkerDispatchStatus{
    ID:       uuid.New(),
    WorkerID: workerID,
    Status:   status,
  }
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "worker_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
    }).
    Create(row).Error; err != nil {
    return nil, classify(err)
  }
  return row, nil
}
