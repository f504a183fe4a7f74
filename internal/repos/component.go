package repos

import (
  "context"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/types"
)

type ComponentRepo interface {
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Component, error)
  Upsert(ctx context.Context, tx *gorm.DB, components []*types.Component) error
  SetEnabled(ctx context.Context, tx *gorm.DB, id string, enabled bool) error
}

type componentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewComponentRepo(db *gorm.DB, baseLog *logger.Logger) ComponentRepo {
  repoLog := baseLog.With("repo", "ComponentRepo")
  return &componentRepo{db: db, log: repoLog}
}

func (r *componentRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Component, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Component
  if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
    return nil, classify(err)
  }
  return results, nil
}

func (r *componentRepo) Upsert(ctx context.Context, tx *gorm.DB, components []*types.Component) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(components) == 0 {
    return nil
  }

  // Seed upsert keeps operator toggles: only parentage is refreshed on
  // conflict, never the enabled bit.
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "id"}},
      DoUpdates: clause.AssignmentColumns([]string{"parent_id", "updated_at"}),
    }).
    Create(&components).Error; err != nil {
    return classify(err)
  }
  return nil
}

func (r *componentRepo) SetEnabled(ctx context.Context, tx *gorm.DB, id string, enabled bool) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == "" {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Component{}).
    Where("id = ?", id).
    Update("enabled", enabled).Error; err != nil {
    return classify(err)
  }
  return nil
}
