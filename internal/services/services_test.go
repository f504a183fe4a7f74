package services

import (
  "context"
  "errors"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/unionhall/sirius-backend/internal/components"
  "github.com/unionhall/sirius-backend/internal/eligibility"
  "github.com/unionhall/sirius-backend/internal/events"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/types"
)

func newServiceDB(t *testing.T) (*gorm.DB, *logger.Logger) {
  t.Helper()
  db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  ddl := []string{
    `CREATE TABLE user (id TEXT PRIMARY KEY, email TEXT NOT NULL, password TEXT NOT NULL, first_name TEXT, last_name TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
    `CREATE TABLE job_type (id TEXT PRIMARY KEY, name TEXT DEFAULT '', eligibility TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
    `CREATE TABLE contact (id TEXT PRIMARY KEY, first_name TEXT DEFAULT '', last_name TEXT DEFAULT '', display_name TEXT DEFAULT '', email TEXT, phone TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
    `CREATE TABLE worker (id TEXT PRIMARY KEY, sirius_id INTEGER NOT NULL, contact_id TEXT NOT NULL, work_status_id TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME)`,
    `CREATE TABLE component (id TEXT PRIMARY KEY, parent_id TEXT, enabled INTEGER NOT NULL DEFAULT 0, created_at DATETIME, updated_at DATETIME)`,
  }
  for _, stmt := range ddl {
    if err := db.Exec(stmt).Error; err != nil {
      t.Fatalf("create schema: %v", err)
    }
  }
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("init logger: %v", err)
  }
  return db, log
}

func TestLoginUserUnknownEmailFails(t *testing.T) {
  db, log := newServiceDB(t)
  svc := NewAuthService(db, log, repos.NewUserRepo(db, log), "test-secret", time.Hour)
  ctx := context.Background()

  if _, err := svc.LoginUser(ctx, "nobody@example.com", "pw"); err == nil {
    t.Fatal("login with unknown email succeeded, want invalid credentials")
  }

  user := &types.User{ID: uuid.New(), Email: "Admin@Example.com", Password: "hunter22"}
  if err := svc.RegisterUser(ctx, user); err != nil {
    t.Fatalf("register: %v", err)
  }
  if _, err := svc.LoginUser(ctx, "admin@example.com", "wrong"); err == nil {
    t.Fatal("login with wrong password succeeded")
  }
  token, err := svc.LoginUser(ctx, "ADMIN@example.com ", "hunter22")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  if token == "" {
    t.Fatal("login returned empty token")
  }
}

func TestSetEligibilityMissingJobTypeIsNotFound(t *testing.T) {
  db, log := newServiceDB(t)
  bus := events.NewBus(log)
  flags := components.NewCache(repos.NewComponentRepo(db, log), log)
  registry := eligibility.NewRegistry(bus, flags, log)
  svc := NewJobTypeService(db, log, repos.NewJobTypeRepo(db, log), registry)

  _, err := svc.SetEligibility(context.Background(), uuid.New(), nil)
  if !errors.Is(err, repos.ErrNotFound) {
    t.Fatalf("err=%v, want ErrNotFound for missing job type", err)
  }
}

type recordingPlugin struct {
  id         string
  recomputed []uuid.UUID
}

func (p *recordingPlugin) ID() string                                 { return p.id }
func (p *recordingPlugin) ComponentID() string                        { return "c." + p.id }
func (p *recordingPlugin) Metadata() eligibility.Metadata             { return eligibility.Metadata{} }
func (p *recordingPlugin) EventHandlers() []eligibility.EventHandler  { return nil }
func (p *recordingPlugin) RecomputeWorker(ctx context.Context, workerID uuid.UUID) error {
  p.recomputed = append(p.recomputed, workerID)
  return nil
}
func (p *recordingPlugin) Condition(ctx context.Context, qc eligibility.QueryContext, config map[string]any) (*eligibility.Condition, error) {
  return nil, nil
}

func TestRecomputeEligibilityRunsEveryPlugin(t *testing.T) {
  db, log := newServiceDB(t)
  ctx := context.Background()

  bus := events.NewBus(log)
  flags := components.NewCache(repos.NewComponentRepo(db, log), log)
  if err := flags.Load(ctx); err != nil {
    t.Fatalf("load flags: %v", err)
  }
  registry := eligibility.NewRegistry(bus, flags, log)
  first := &recordingPlugin{id: "first"}
  second := &recordingPlugin{id: "second"}
  registry.Register(first)
  registry.Register(second)

  workerRepo := repos.NewWorkerRepo(db, log)
  svc := NewWorkerAdminService(db, log, NewEmitter(log, bus, nil), registry, workerRepo,
    repos.NewWorkerDNCRepo(db, log), repos.NewWorkerHFERepo(db, log),
    repos.NewWorkerSkillRepo(db, log), repos.NewWorkerAvailabilityRepo(db, log))

  if err := svc.RecomputeEligibility(ctx, uuid.New()); !errors.Is(err, repos.ErrNotFound) {
    t.Fatalf("err=%v for unknown worker, want ErrNotFound", err)
  }
  if len(first.recomputed)+len(second.recomputed) != 0 {
    t.Fatal("plugins ran for an unknown worker")
  }

  contact := &types.Contact{ID: uuid.New(), DisplayName: "Recompute Target"}
  if err := db.Create(contact).Error; err != nil {
    t.Fatalf("seed contact: %v", err)
  }
  worker := &types.Worker{ID: uuid.New(), SiriusID: 7001, ContactID: contact.ID}
  if err := db.Create(worker).Error; err != nil {
    t.Fatalf("seed worker: %v", err)
  }

  if err := svc.RecomputeEligibility(ctx, worker.ID); err != nil {
    t.Fatalf("recompute: %v", err)
  }
  for _, p := range []*recordingPlugin{first, second} {
    if len(p.recomputed) != 1 || p.recomputed[0] != worker.ID {
      t.Fatalf("plugin %s recomputed %v, want exactly %s", p.id, p.recomputed, worker.ID)
    }
  }
}
