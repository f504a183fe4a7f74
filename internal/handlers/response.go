package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/unionhall/sirius-backend/internal/repos"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondRepoError maps the repo error set onto HTTP statuses so handlers
// never branch on database details.
func RespondRepoError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, repos.ErrNotFound):
    RespondError(c, http.StatusNotFound, "not_found", err)
  case errors.Is(err, repos.ErrConflict):
    RespondError(c, http.StatusConflict, "conflict", err)
  case errors.Is(err, repos.ErrPrecondition):
    RespondError(c, http.StatusUnprocessableEntity, "precondition_failed", err)
  case errors.Is(err, repos.ErrRetryable):
    RespondError(c, http.StatusServiceUnavailable, "retryable", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal", err)
  }
}
