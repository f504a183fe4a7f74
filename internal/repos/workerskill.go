package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type WorkerSkillRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerSkill) ([]*types.WorkerSkill, error)
  GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerSkill, error)
  DeleteByWorkerAndSkill(ctx context.Context, tx *gorm.DB, workerID, skillID uuid.UUID) error
  DistinctWorkerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
}

type workerSkillRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkerSkillRepo(db *gorm.DB, baseLog *logger.Logger) WorkerSkillRepo {
  repoLog := baseLog.With("repo", "WorkerSkillRepo")
  return &workerSkillRepo{db: db, log: repoLog}
}

func (r *workerSkillRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.WorkerSkill) ([]*types.WorkerSkill, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(entries) == 0 {
    return []*types.WorkerSkill{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, classify(err)
  }
  return entries, nil
}

func (r *workerSkillRepo) GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.WorkerSkill, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.WorkerSkill
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

func (r *workerSkillRepo) DeleteByWorkerAndSkill(ctx context.Context, tx *gorm.DB, workerID, skillID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if workerID == uuid.Nil || skillID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("worker_id = ? AND skill_id = ?", workerID, skillID).
    Delete(&types.WorkerSkill{}).Error; err != nil {
    return classify(err)
  }
  return nil
}

func (r *workerSkillRepo) DistinctWorkerIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.WorkerSkill{}).
    Distinct("worker_id").
    Pluck("worker_id", &ids).Error; err != nil {
    return nil, classify(err)
  }
  return ids, nil
}
