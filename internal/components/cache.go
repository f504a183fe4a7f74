package components

import (
  "context"
  "fmt"
  "sync"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/types"
)

// Cache holds the component feature-flag tree in memory so enablement checks
// are synchronous. A component reads as enabled only when it and every
// ancestor are enabled; an id the table doesn't know reads as disabled.
type Cache struct {
  mu     sync.RWMutex
  log    *logger.Logger
  repo   repos.ComponentRepo
  byID   map[string]*types.Component
  loaded bool
}

func NewCache(repo repos.ComponentRepo, log *logger.Logger) *Cache {
  return &Cache{
    log:  log.With("component", "ComponentCache"),
    repo: repo,
  }
}

// Load replaces the whole tree from storage. Safe to call again to pick up
// operator toggles.
func (c *Cache) Load(ctx context.Context) error {
  rows, err := c.repo.GetAll(ctx, nil)
  if err != nil {
    return fmt.Errorf("load components: %w", err)
  }
  byID := make(map[string]*types.Component, len(rows))
  for _, row := range rows {
    byID[row.ID] = row
  }

  c.mu.Lock()
  c.byID = byID
  c.loaded = true
  c.mu.Unlock()

  c.log.Info("Component cache loaded", "count", len(rows))
  return nil
}

func (c *Cache) Initialized() bool {
  c.mu.RLock()
  defer c.mu.RUnlock()
  return c.loaded
}

// IsEnabled must only be called once Initialized reports true; before that it
// logs and reads as disabled rather than guessing.
func (c *Cache) IsEnabled(componentID string) bool {
  if componentID == "" {
    return true
  }

  c.mu.RLock()
  defer c.mu.RUnlock()

  if !c.loaded {
    c.log.Warn("Component cache queried before load", "component_id", componentID)
    return false
  }

  seen := make(map[string]bool)
  id := componentID
  for {
    if seen[id] {
      c.log.Error("Component parent cycle detected", "component_id", componentID)
      return false
    }
    seen[id] = true

    component, ok := c.byID[id]
    if !ok || !component.Enabled {
      return false
    }
    if component.ParentID == nil || *component.ParentID == "" {
      return true
    }
    id = *component.ParentID
  }
}
