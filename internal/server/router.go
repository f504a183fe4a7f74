package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/unionhall/sirius-backend/internal/handlers"
  "github.com/unionhall/sirius-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler        *handlers.AuthHandler
  AuthMiddleware     *middleware.AuthMiddleware
  EligibilityHandler *handlers.EligibilityHandler
  DispatchHandler    *handlers.DispatchHandler
  WorkerHandler      *handlers.WorkerHandler
  JobTypeHandler     *handlers.JobTypeHandler
  ComponentHandler   *handlers.ComponentHandler
  AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("sirius-backend"))

  // Cors
  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000", "http://localhost:5174"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Eligibility
  protected.GET("/jobs/:jobId/eligible-workers", cfg.EligibilityHandler.EligibleWorkers)
  protected.GET("/jobs/:jobId/eligible-workers/sql", cfg.EligibilityHandler.EligibleWorkersSQL)
  protected.GET("/jobs/:jobId/eligibility/:workerId", cfg.EligibilityHandler.CheckWorker)
  protected.GET("/eligibility/plugins", cfg.EligibilityHandler.Plugins)
  // Dispatch
  protected.POST("/dispatches", cfg.DispatchHandler.Dispatch)
  protected.POST("/dispatches/:dispatchId/accept", cfg.DispatchHandler.Accept)
  protected.PUT("/workers/:workerId/dispatch-status", cfg.DispatchHandler.SetStatus)
  // Worker admin
  protected.POST("/workers/:workerId/dnc/:employerId", cfg.WorkerHandler.AddDNC)
  protected.DELETE("/workers/:workerId/dnc/:employerId", cfg.WorkerHandler.RemoveDNC)
  protected.POST("/workers/:workerId/hfe/:employerId", cfg.WorkerHandler.AddHFE)
  protected.DELETE("/workers/:workerId/hfe/:employerId", cfg.WorkerHandler.RemoveHFE)
  protected.POST("/workers/:workerId/skills/:skillId", cfg.WorkerHandler.AddSkill)
  protected.DELETE("/workers/:workerId/skills/:skillId", cfg.WorkerHandler.RemoveSkill)
  protected.PUT("/workers/:workerId/work-status", cfg.WorkerHandler.SetWorkStatus)
  protected.POST("/workers/:workerId/availability", cfg.WorkerHandler.AddAvailability)
  protected.POST("/workers/:workerId/recompute-eligibility", cfg.WorkerHandler.RecomputeEligibility)
  // Job types
  protected.GET("/job-types/:jobTypeId", cfg.JobTypeHandler.Get)
  protected.PUT("/job-types/:jobTypeId/eligibility", cfg.JobTypeHandler.SetEligibility)
  // Components
  protected.GET("/components", cfg.ComponentHandler.List)
  protected.PUT("/components/:componentId", cfg.ComponentHandler.SetEnabled)

  return router
}
