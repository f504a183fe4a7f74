package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/unionhall/sirius-backend/internal/services"
)

type DispatchHandler struct {
  dispatchService services.DispatchService
}

func NewDispatchHandler(dispatchService services.DispatchService) *DispatchHandler {
  return &DispatchHandler{dispatchService: dispatchService}
}

func (dh *DispatchHandler) Dispatch(c *gin.Context) {
  var req struct {
    WorkerID uuid.UUID `json:"worker_id" binding:"required"`
    JobID    uuid.UUID `json:"job_id" binding:"required"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  dispatch, err := dh.dispatchService.DispatchWorker(c.Request.Context(), req.WorkerID, req.JobID)
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, dispatch)
}

func (dh *DispatchHandler) Accept(c *gin.Context) {
  dispatchID, err := uuid.Parse(c.Param("dispatchId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid dispatch id"))
    return
  }
  dispatch, err := dh.dispatchService.AcceptDispatch(c.Request.Context(), dispatchID)
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, dispatch)
}

func (dh *DispatchHandler) SetStatus(c *gin.Context) {
  workerID, err := uuid.Parse(c.Param("workerId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid worker id"))
    return
  }
  var req struct {
    Status string `json:"status" binding:"required"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := dh.dispatchService.SetDispatchStatus(c.Request.Context(), workerID, req.Status); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
