package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type WorkerHFERepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerHFE) ([]*types.WorkerHFE, error)
  GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerHFE, error)
  DeleteByWorkerAndEmployer(ctx context.Context, tx *gorm.DB, workerID, employerID uuid.UUID) error
}

type workerHFERepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkerHFERepo(db *gorm.DB, baseLog *logger.Logger) WorkerHFERepo {
  repoLog := baseLog.With("repo", "WorkerHFERepo")
  return &workerHFERepo{db: db, log: repoLog}
}

func (r *workerHFERepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerHFE) ([]*types.WorkerHFE, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(entries) == 0 {
    return []*types.WorkerHFE{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, classify(err)
  }
  return entries, nil
}

func (r *workerHFERepo) GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerHFE, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.WorkerHFE
  if workerID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("worker_id = ?", workerID).
    Find(&results).Error; err != nil {
    return nil, classify(err)
  }
  return results, nil
}

func (r *workerHFERepo) DeleteByWorkerAndEmployer(ctx context.Context, tx *gorm.DB, workerID, employerID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if workerID == uuid.Nil || employerID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("worker_id = ? AND employer_id = ?", workerID, employerID).
    Delete(&types.WorkerHFE{}).Error; err != nil {
    return classify(err)
  }
  return nil
}
