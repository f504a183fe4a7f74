package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type DispatchRepo interface {
  Create(ctx context.Context, tx *gorm.DB, dispatches []*types.Dispatch) ([]*types.Dispatch, error)
  Update(ctx context.Context, tx *gorm.DB, dispatch *types.Dispatch) error
  // GetAcceptedByWorker preloads each dispatch's job; the singleshift and
  // accepted plugins need the job's start date.
  GetAcceptedByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.Dispatch, error)
  DistinctAcceptedWorkerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
}

type dispatchRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDispatchRepo(db *gorm.DB, baseLog *logger.Logger) DispatchRepo {
  repoLog := baseLog.With("repo", "DispatchRepo")
  return &dispatchRepo{db: db, log: repoLog}
}

func (r *dispatchRepo) Create(ctx context.Context, tx *gorm.DB, dispatches []*types.Dispatch) ([]*types.Dispatch, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(dispatches) == 0 {
    return []*types.Dispatch{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&dispatches).Error; err != nil {
    return nil, classify(err)
  }
  return dispatches, nil
}

func (r *dispatchRepo) Update(ctx context.Context, tx *gorm.DB, dispatch *types.Dispatch) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if dispatch == nil || dispatch.ID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Save(dispatch).Error; err != nil {
    return classify(err)
  }
  return nil
}

func (r *dispatchRepo) GetAcceptedByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.Dispatch, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Dispatch
  if workerID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Job").
    Where("worker_id = ? AND accepted = ?", workerID, true).
    Find(&results).Error; err != nil {
    return nil, classify(err)
  }
  return results, nil
}

func (r *dispatchRepo) DistinctAcceptedWorkerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.Dispatch{}).
    Where("accepted = ?", true).
    Distinct("worker_id").
    Pluck("worker_id", &ids).Error; err != nil {
    return nil, classify(err)
  }
  return ids, nil
}
