package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/adanepro/spotlightacademy-sub000/internal/apperr"
  "github.com/adanepro/spotlightacademy-sub000/internal/requestdata"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// actorFrom rebuilds the acting user from the request context populated by
// the auth middleware.
func actorFrom(c *gin.Context) (types.Actor, error) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    return types.Actor{}, apperr.Authorization("no authenticated user in request")
  }
  return types.Actor{ID: rd.ActorID, Role: rd.Role, InstitutionID: rd.InstitutionID}, nil
}
