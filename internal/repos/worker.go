package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type WorkerRepo interface {
  Create(ctx context.Context, tx *gorm.DB, workers []*types.Worker) ([]*types.Worker, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Worker, error)
  Update(ctx context.Context, tx *gorm.DB, worker *types.Worker) error
  AllIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
}

type workerRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkerRepo(db *gorm.DB, baseLog *logger.Logger) WorkerRepo {
  repoLog := baseLog.With("repo", "WorkerRepo")
  return &workerRepo{db: db, log: repoLog}
}

func (r *workerRepo) Create(ctx context.Context, tx *gorm.DB, workers []*types.Worker) ([]*types.Worker, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(workers) == 0 {
    return []*types.Worker{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&workers).Error; err != nil {
    return nil, classify(err)
  }
  return workers, nil
}

func (r *workerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Worker, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var worker types.Worker
  err := transaction.WithContext(ctx).
    Preload("Contact").
    Preload("WorkStatus").
    Where("id = ?", id).
    First(&worker).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, classify(err)
  }
  return &worker, nil
}

func (r *workerRepo) Update(ctx context.Context, tx *gorm.DB, worker *types.Worker) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if worker == nil || worker.ID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Save(worker).Error; err != nil {
    return classify(err)
  }
  return nil
}

func (r *workerRepo) AllIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.Worker{}).
    Pluck("id", &ids).Error; err != nil {
    return nil, classify(err)
  }
  return ids, nil
}
