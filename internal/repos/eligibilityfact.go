package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

// EligibilityFactRepo is the only writer surface for the fact store. Writes
// always go through ReplaceForWorker so a category's rows for one worker are
// swapped out atomically; a reader never sees the window between the delete
// and the re-insert.
type EligibilityFactRepo interface {
  ReplaceForWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID, category string, values []string) error
  GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.EligibilityFact, error)
  GetByWorkerAndCategory(ctx context.Context, tx *gorm.DB, workerID uuid.UUID, category string) ([]*types.EligibilityFact, error)
  CountByCategory(ctx context.Context, tx *gorm.DB, category string) (int64, error)
}

type eligibilityFactRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEligibilityFactRepo(db *gorm.DB, baseLog *logger.Logger) EligibilityFactRepo {
  repoLog := baseLog.With("repo", "EligibilityFactRepo")
  return &eligibilityFactRepo{db: db, log: repoLog}
}

func (r *eligibilityFactRepo) ReplaceForWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID, category string, values []string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if workerID == uuid.Nil || category == "" {
    return nil
  }

  err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
    if err := inner.
      Where("worker_id = ? AND category = ?", workerID, category).
      Delete(&types.EligibilityFact{}).Error; err != nil {
      return err
    }
    if len(values) == 0 {
      return nil
    }
    facts := make([]*types.EligibilityFact, 0, len(values))
    for _, v := range values {
      facts = append(facts, &types.EligibilityFact{
        ID:       uuid.New(),
        WorkerID: workerID,
        Category: category,
        Value:    v,
      })
    }
    return inner.Create(&facts).Error
  })
  if err != nil {
    r.log.Error("Failed to replace eligibility facts", "worker_id", workerID, "category", category, "error", err)
    return classify(err)
  }
  return nil
}

func (r *eligibilityFactRepo) GetByWorker(ctx context.Context, tx *gorm.DB, workerID uuid.UUID) ([]*types.EligibilityFact, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EligibilityFact
  if workerID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("worker_id = ?", workerID).
    Order("category, value").
    Find(&results).Error; err != nil {
    return nil, classify(err)
  }
  return results, nil
}

func (r *eligibilityFactRepo) GetByWorkerAndCategory(ctx context.Context, tx *gorm.DB, workerID uuid.UUID, category string) ([]*types.EligibilityFact, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EligibilityFact
  if workerID == uuid.Nil || category == "" {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("worker_id = ? AND category = ?", workerID, category).
    Order("value").
    Find(&results).Error; err != nil {
    return nil, classify(err)
  }
  return results, nil
}

func (r *eligibilityFactRepo) CountByCategory(ctx context.Context, tx *gorm.DB, category string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.EligibilityFact{}).
    Where("category = ?", category).
    Count(&count).Error; err != nil {
    return 0, classify(err)
  }
  return count, nil
}
