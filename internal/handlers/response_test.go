package handlers

import (
  "encoding/json"
  "errors"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-gonic/gin"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
)

func TestRespondErrorStatusMapping(t *testing.T) {
  gin.SetMode(gin.TestMode)

  cases := []struct {
    name       string
    err        error
    wantStatus int
    wantCode   string
  }{
    {"validation", apperr.Validation("bad input"), http.StatusBadRequest, "validation"},
    {"authorization", apperr.Authorization("nope"), http.StatusForbidden, "authorization"},
    {"not found", apperr.NotFound("missing"), http.StatusNotFound, "not_found"},
    {"duplicate", apperr.Duplicate("again"), http.StatusConflict, "duplicate"},
    {"conflict", apperr.Conflict("raced"), http.StatusConflict, "conflict"},
    {"empty course", apperr.EmptyCourse("nothing"), http.StatusUnprocessableEntity, "empty_course"},
    {"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "internal"},
    {"plain error", errors.New("boom"), http.StatusInternalServerError, "internal"},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      w := httptest.NewRecorder()
      c, _ := gin.CreateTestContext(w)
      RespondError(c, tc.err)

      if w.Code != tc.wantStatus {
        t.Fatalf("status: want=%d got=%d", tc.wantStatus, w.Code)
      }
      var envelope ErrorEnvelope
      if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
        t.Fatalf("decode body: %v", err)
      }
      if envelope.Error.Code != tc.wantCode {
        t.Fatalf("code: want=%q got=%q", tc.wantCode, envelope.Error.Code)
      }
      if envelope.Error.Message == "" {
        t.Fatalf("message must not be empty")
      }
    })
  }
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
  gin.SetMode(gin.TestMode)
  w := httptest.NewRecorder()
  c, _ := gin.CreateTestContext(w)
  RespondError(c, errors.New("pq: password authentication failed"))

  var envelope ErrorEnvelope
  if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
    t.Fatalf("decode body: %v", err)
  }
  if envelope.Error.Message != "internal server error" {
    t.Fatalf("internal detail leaked: %q", envelope.Error.Message)
  }
}
