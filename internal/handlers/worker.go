package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/unionhall/sirius-backend/internal/services"
)

type WorkerHandler struct {
  adminService services.WorkerAdminService
}

func NewWorkerHandler(adminService services.WorkerAdminService) *WorkerHandler {
  return &WorkerHandler{adminService: adminService}
}

func (wh *WorkerHandler) AddDNC(c *gin.Context) {
  workerID, employerID, ok := workerEmployerIDs(c)
  if !ok {
    return
  }
  var req struct {
    Reason string `json:"reason"`
  }
  c.ShouldBindJSON(&req)
  if err := wh.adminService.AddDNC(c.Request.Context(), workerID, employerID, req.Reason); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) RemoveDNC(c *gin.Context) {
  workerID, employerID, ok := workerEmployerIDs(c)
  if !ok {
    return
  }
  if err := wh.adminService.RemoveDNC(c.Request.Context(), workerID, employerID); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) AddHFE(c *gin.Context) {
  workerID, employerID, ok := workerEmployerIDs(c)
  if !ok {
    return
  }
  if err := wh.adminService.AddHFE(c.Request.Context(), workerID, employerID); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) RemoveHFE(c *gin.Context) {
  workerID, employerID, ok := workerEmployerIDs(c)
  if !ok {
    return
  }
  if err := wh.adminService.RemoveHFE(c.Request.Context(), workerID, employerID); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) AddSkill(c *gin.Context) {
  workerID, ok := workerID(c)
  if !ok {
    return
  }
  skillID, err := uuid.Parse(c.Param("skillId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid skill id"))
    return
  }
  if err := wh.adminService.AddSkill(c.Request.Context(), workerID, skillID); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) RemoveSkill(c *gin.Context) {
  workerID, ok := workerID(c)
  if !ok {
    return
  }
  skillID, err := uuid.Parse(c.Param("skillId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid skill id"))
    return
  }
  if err := wh.adminService.RemoveSkill(c.Request.Context(), workerID, skillID); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) SetWorkStatus(c *gin.Context) {
  workerID, ok := workerID(c)
  if !ok {
    return
  }
  var req struct {
    WorkStatusID *uuid.UUID `json:"work_status_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := wh.adminService.SetWorkStatus(c.Request.Context(), workerID, req.WorkStatusID); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) AddAvailability(c *gin.Context) {
  workerID, ok := workerID(c)
  if !ok {
    return
  }
  var req struct {
    Dates []string `json:"dates"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := wh.adminService.AddAvailability(c.Request.Context(), workerID, req.Dates); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (wh *WorkerHandler) RecomputeEligibility(c *gin.Context) {
  workerID, ok := workerID(c)
  if !ok {
    return
  }
  if err := wh.adminService.RecomputeEligibility(c.Request.Context(), workerID); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func workerID(c *gin.Context) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param("workerId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid worker id"))
    return uuid.Nil, false
  }
  return id, true
}

func workerEmployerIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
  wid, ok := workerID(c)
  if !ok {
    return uuid.Nil, uuid.Nil, false
  }
  eid, err := uuid.Parse(c.Param("employerId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid employer id"))
    return uuid.Nil, uuid.Nil, false
  }
  return wid, eid, true
}
