package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type WorkerDNCRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerDNC) ([]*types.WorkerDNC, error)
  GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerDNC, error)
  DeleteByWorkerAndEmployer(ctx context.Context, tx *gorm.DB, workerID, employerID uuid.UUID) error
}

type workerDNCRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkerDNCRepo(db *gorm.DB, baseLog *logger.Logger) WorkerDNCRepo {
  repoLog := baseLog.With("repo", "WorkerDNCRepo")
  return &workerDNCRepo{db: db, log: repoLog}
}

func (r *workerDNCRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerDNC) ([]*types.WorkerDNC, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(entries) == 0 {
    return []*types.WorkerDNC{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, classify(err)
  }
  return entries, nil
}

func (r *workerDNCRepo) GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerDNC, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.WorkerDNC
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

func (r *workerDNCRepo) DeleteByWorkerAndEmployer(ctx context.Context, tx *gorm.DB, workerID, employerID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if workerID == uuid.Nil || employerID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("worker_id = ? AND employer_id = ?", workerID, employerID).
    Delete(&types.WorkerDNC{}).Error; err != nil {
    return classify(err)
  }
  return nil
}
