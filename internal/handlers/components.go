package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/unionhall/sirius-backend/internal/services"
)

type ComponentHandler struct {
  adminService services.ComponentAdminService
}

func NewComponentHandler(adminService services.ComponentAdminService) *ComponentHandler {
  return &ComponentHandler{adminService: adminService}
}

func (ch *ComponentHandler) List(c *gin.Context) {
  list, err := ch.adminService.List(c.Request.Context())
  if err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"components": list})
}

// SetEnabled flips a flag and triggers a full fact rebuild before returning,
// so the board the operator refreshes next reflects the toggle.
func (ch *ComponentHandler) SetEnabled(c *gin.Context) {
  componentID := c.Param("componentId")
  var req struct {
    Enabled *bool `json:"enabled" binding:"required"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := ch.adminService.SetEnabled(c.Request.Context(), componentID, *req.Enabled); err != nil {
    RespondRepoError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
