package components

import (
  "context"
  "fmt"
  "os"
  "gopkg.in/yaml.v3"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/types"
)

type seedEntry struct {
  ID      string  `yaml:"id"`
  Parent  *string `yaml:"parent,omitempty"`
  Enabled bool    `yaml:"enabled"`
}

type seedFile struct {
  Components []seedEntry `yaml:"components"`
}

// SeedFromFile upserts the component tree from a YAML manifest. New ids are
// created with their declared default; ids already present keep whatever
// enabled state an operator last set.
func SeedFromFile(ctx context.Context, repo repos.ComponentRepo, path string) error {
  raw, err := os.ReadFile(path)
  if err != nil {
    return fmt.Errorf("read component seed %s: %w", path, err)
  }

  var parsed seedFile
  if err := yaml.Unmarshal(raw, &parsed); err != nil {
    return fmt.Errorf("parse component seed %s: %w", path, err)
  }

  rows := make([]*types.Component, 0, len(parsed.Components))
  for _, entry := range parsed.Components {
    if entry.ID == "" {
      continue
    }
    rows = append(rows, &types.Component{
      ID:       entry.ID,
      ParentID: entry.Parent,
      Enabled:  entry.Enabled,
    })
  }
  return repo.Upsert(ctx, nil, rows)
}
