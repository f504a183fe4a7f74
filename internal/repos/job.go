package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type JobRepo interface {
  Create(ctx context.Context, tx *gorm.DB, jobs []*types.Job) ([]*types.Job, error)
  // GetWithRelations returns nil, nil when the job does not exist. The
  // eligible-workers query depends on that: a deleted job must read as an
  // empty result, not an error.
  GetWithRelations(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Job, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Job, error)
}

type jobRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
  repoLog := baseLog.With("repo", "JobRepo")
  return &jobRepo{db: db, log: repoLog}
}

func (r *jobRepo) Create(ctx context.Context, tx *gorm.DB, jobs []*types.Job) ([]*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(jobs) == 0 {
    return []*types.Job{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&jobs).Error; err != nil {
    return nil, classify(err)
  }
  return jobs, nil
}

func (r *jobRepo) GetWithRelations(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var job types.Job
  err := transaction.WithContext(ctx).
    Preload("Employer").
    Preload("JobType").
    Where("id = ?", id).
    First(&job).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, classify(err)
  }
  return &job, nil
}

func (r *jobRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Job, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Job
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, classify(err)
  }
  return results, nil
}
