package handlers

import (
  "fmt"
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/unionhall/sirius-backend/internal/components"
  "github.com/unionhall/sirius-backend/internal/eligibility"
  "github.com/unionhall/sirius-backend/internal/eligibility/plugins"
)

type EligibilityHandler struct {
  queryService eligibility.QueryService
  registry     *eligibility.Registry
  flags        *components.Cache
}

func NewEligibilityHandler(queryService eligibility.QueryService, registry *eligibility.Registry, flags *components.Cache) *EligibilityHandler {
  return &EligibilityHandler{queryService: queryService, registry: registry, flags: flags}
}

// EligibleWorkers is the dispatch board's main list: who can take this job
// right now.
func (eh *EligibilityHandler) EligibleWorkers(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("jobId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid job id"))
    return
  }
  limit, offset := pagination(c)
  filters := parseFilters(c)

  result, err := eh.queryService.EligibleWorkersForJob(c.Request.Context(), jobID, limit, offset, filters)
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, result)
}

// EligibleWorkersSQL returns the compiled query instead of running it. Only
// reachable while the debug-sql component is switched on.
func (eh *EligibilityHandler) EligibleWorkersSQL(c *gin.Context) {
  if !eh.flags.IsEnabled(plugins.ComponentDebugSQL) {
    RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("not found"))
    return
  }
  jobID, err := uuid.Parse(c.Param("jobId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid job id"))
    return
  }
  limit, offset := pagination(c)
  filters := parseFilters(c)

  result, err := eh.queryService.EligibleWorkersForJobSQL(c.Request.Context(), jobID, limit, offset, filters)
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  if result == nil {
    RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("job not found"))
    return
  }
  RespondOK(c, result)
}

// CheckWorker answers the single-worker question the dispatcher asks before
// overriding: is this specific worker eligible, and which rules applied.
func (eh *EligibilityHandler) CheckWorker(c *gin.Context) {
  jobID, err := uuid.Parse(c.Param("jobId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid job id"))
    return
  }
  workerID, err := uuid.Parse(c.Param("workerId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid worker id"))
    return
  }
  result, err := eh.queryService.CheckWorkerEligibility(c.Request.Context(), jobID, workerID)
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  if result == nil {
    RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("job not found"))
    return
  }
  RespondOK(c, result)
}

// Plugins lists registered plugin metadata for the job-type configuration UI.
// Hidden plugins stay out of the response.
func (eh *EligibilityHandler) Plugins(c *gin.Context) {
  all := eh.registry.PluginsMetadata()
  visible := make([]eligibility.PluginMetadata, 0, len(all))
  for _, meta := range all {
    if meta.Hidden {
      continue
    }
    visible = append(visible, meta)
  }
  RespondOK(c, gin.H{"plugins": visible})
}

func pagination(c *gin.Context) (int, int) {
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
  offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
  if limit < 0 {
    limit = 0
  }
  if offset < 0 {
    offset = 0
  }
  return limit, offset
}

func parseFilters(c *gin.Context) eligibility.Filters {
  filters := eligibility.Filters{
    Name:                  c.Query("name"),
    ExcludeWithDispatches: c.Query("exclude_with_dispatches") == "true",
  }
  if raw := c.Query("sirius_id"); raw != "" {
    if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
      filters.SiriusID = &id
    }
  }
  return filters
}
