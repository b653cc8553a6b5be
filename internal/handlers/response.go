package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, payload)
}

// RespondError maps domain error kinds onto HTTP statuses. Anything that is
// not a known domain error is reported as a 500 with a generic message so
// internals never leak to clients.
func RespondError(c *gin.Context, err error) {
  status := http.StatusInternalServerError
  code := "internal"
  msg := "internal server error"

  switch apperr.KindOf(err) {
  case apperr.KindValidation:
    status, code, msg = http.StatusBadRequest, "validation", err.Error()
  case apperr.KindAuthorization:
    status, code, msg = http.StatusForbidden, "authorization", err.Error()
  case apperr.KindNotFound:
    status, code, msg = http.StatusNotFound, "not_found", err.Error()
  case apperr.KindDuplicate:
    status, code, msg = http.StatusConflict, "duplicate", err.Error()
  case apperr.KindConflict:
    status, code, msg = http.StatusConflict, "conflict", err.Error()
  case apperr.KindEmptyCourse:
    status, code, msg = http.StatusUnprocessableEntity, "empty_course", err.Error()
  }

  c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}
