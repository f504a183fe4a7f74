package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/unionhall/sirius-backend/internal/eligibility"
  "github.com/unionhall/sirius-backend/internal/services"
)

type JobTypeHandler struct {
  jobTypeService services.JobTypeService
}

func NewJobTypeHandler(jobTypeService services.JobTypeService) *JobTypeHandler {
  return &JobTypeHandler{jobTypeService: jobTypeService}
}

func (jh *JobTypeHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("jobTypeId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid job type id"))
    return
  }
  jobType, err := jh.jobTypeService.Get(c.Request.Context(), id)
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  if jobType == nil {
    RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("job type %s not found", id))
    return
  }
  RespondOK(c, jobType)
}

func (jh *JobTypeHandler) SetEligibility(c *gin.Context) {
  id, err := uuid.Parse(c.Param("jobTypeId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid job type id"))
    return
  }
  var req struct {
    Plugins []eligibility.PluginConfig `json:"plugins"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  jobType, err := jh.jobTypeService.SetEligibility(c.Request.Context(), id, req.Plugins)
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, jobType)
}
