package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type JobTypeRepo interface {
  Create(ctx context.Context, tx *gorm.DB, jobTypes []*types.JobType) ([]*types.JobType, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.JobType, error)
  Update(ctx context.Context, tx *gorm.DB, jobType *types.JobType) error
}

type jobTypeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewJobTypeRepo(db *gorm.DB, baseLog *logger.Logger) JobTypeRepo {
  repoLog := baseLog.With("repo", "JobTypeRepo")
  return &jobTypeRepo{db: db, log: repoLog}
}

func (r *jobTypeRepo) Create(ctx context.Context, tx *gorm.DB, jobTypes []*types.JobType) ([]*types.JobType, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(jobTypes) == 0 {
    return []*types.JobType{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&jobTypes).Error; err != nil {
    return nil, classify(err)
  }
  return jobTypes, nil
}

func (r *jobTypeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.JobType, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var jobType types.JobType
  err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&jobType).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, classify(err)
  }
  return &jobType, nil
}

func (r *jobTypeRepo) Update(ctx context.Context, tx *gorm.DB, jobType *types.JobType) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if jobType == nil || jobType.ID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Save(jobType).Error; err != nil {
    return classify(err)
  }
  return nil
}
