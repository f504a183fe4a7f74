package main

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/unionhall/sirius-backend/internal/components"
  "github.com/unionhall/sirius-backend/internal/db"
  "github.com/unionhall/sirius-backend/internal/eligibility"
  "github.com/unionhall/sirius-backend/internal/eligibility/plugins"
  "github.com/unionhall/sirius-backend/internal/events"
  "github.com/unionhall/sirius-backend/internal/handlers"
  "github.com/unionhall/sirius-backend/internal/logger"
  "github.com/unionhall/sirius-backend/internal/middleware"
  "github.com/unionhall/sirius-backend/internal/observability"
  "github.com/unionhall/sirius-backend/internal/repos"
  "github.com/unionhall/sirius-backend/internal/server"
  "github.com/unionhall/sirius-backend/internal/services"
  "github.com/unionhall/sirius-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  componentSeedPath := utils.GetEnv("COMPONENT_SEED_PATH", "config/components.yaml", log)

  // Tracing
  ctx := context.Background()
  otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "sirius-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer otelShutdown(ctx)
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  workerRepo := repos.NewWorkerRepo(thePG, log)
  jobRepo := repos.NewJobRepo(thePG, log)
  jobTypeRepo := repos.NewJobTypeRepo(thePG, log)
  dispatchRepo := repos.NewDispatchRepo(thePG, log)
  dncRepo := repos.NewWorkerDNCRepo(thePG, log)
  hfeRepo := repos.NewWorkerHFERepo(thePG, log)
  statusRepo := repos.NewWorkerDispatchStatusRepo(thePG, log)
  skillRepo := repos.NewWorkerSkillRepo(thePG, log)
  availabilityRepo := repos.NewWorkerAvailabilityRepo(thePG, log)
  factRepo := repos.NewEligibilityFactRepo(thePG, log)
  componentRepo := repos.NewComponentRepo(thePG, log)

  // Component flags
  log.Info("Loading component flags from main...")
  if err := components.SeedFromFile(ctx, componentRepo, componentSeedPath); err != nil {
    log.Warn("Component seed failed", "path", componentSeedPath, "error", err)
  }
  flags := components.NewCache(componentRepo, log)
  if err := flags.Load(ctx); err != nil {
    log.Error("Component flag load failed", "error", err)
    os.Exit(1)
  }

  // Events
  log.Info("Setting up event bus from main...")
  bus := events.NewBus(log)
  var mirror *events.RedisMirror
  if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
    mirror, err = events.NewRedisMirror(log, bus)
    if err != nil {
      log.Warn("Redis event mirror init failed, running single-instance", "error", err)
      mirror = nil
    } else if err := mirror.StartForwarder(ctx); err != nil {
      log.Warn("Redis event forwarder failed to start", "error", err)
    }
  }
  emitter := services.NewEmitter(log, bus, mirror)

  // Eligibility
  log.Info("Registering eligibility plugins from main...")
  registry := eligibility.NewRegistry(bus, flags, log)
  plugins.RegisterAll(registry, plugins.Deps{
    DB:           thePG,
    Log:          log,
    Flags:        flags,
    Facts:        factRepo,
    Workers:      workerRepo,
    Jobs:         jobRepo,
    Dispatches:   dispatchRepo,
    DNC:          dncRepo,
    HFE:          hfeRepo,
    Status:       statusRepo,
    Skills:       skillRepo,
    Availability: availabilityRepo,
  })
  queryService := eligibility.NewQueryService(thePG, log, registry, flags, jobRepo, jobTypeRepo)

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
  dispatchService := services.NewDispatchService(thePG, log, emitter, dispatchRepo, statusRepo, workerRepo, jobRepo)
  workerAdminService := services.NewWorkerAdminService(thePG, log, emitter, registry, workerRepo, dncRepo, hfeRepo, skillRepo, availabilityRepo)
  jobTypeService := services.NewJobTypeService(thePG, log, jobTypeRepo, registry)
  componentAdminService := services.NewComponentAdminService(thePG, log, componentRepo, flags, registry, workerRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  eligibilityHandler := handlers.NewEligibilityHandler(queryService, registry, flags)
  dispatchHandler := handlers.NewDispatchHandler(dispatchService)
  workerHandler := handlers.NewWorkerHandler(workerAdminService)
  jobTypeHandler := handlers.NewJobTypeHandler(jobTypeService)
  componentHandler := handlers.NewComponentHandler(componentAdminService)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  var origins []string
  if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
    origins = strings.Split(raw, ",")
  }
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:        authHandler,
    AuthMiddleware:     authMiddleware,
    EligibilityHandler: eligibilityHandler,
    DispatchHandler:    dispatchHandler,
    WorkerHandler:      workerHandler,
    JobTypeHandler:     jobTypeHandler,
    ComponentHandler:   componentHandler,
    AllowOrigins:       origins,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server exited", "error", err)
    os.Exit(1)
  }
}
