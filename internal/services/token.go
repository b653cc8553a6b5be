package services

import (
  "context"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/repos"
  "github.com/adanepro/spotlightacademy-sub000/internal/requestdata"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

type JWTClaims struct {
  jwt.RegisteredClaims
  Role string `json:"role"`
}

// TokenService issues and verifies access tokens. Role and institution are
// re-read from the user row on every request so a revoked trainer cannot
// keep acting on a stale token.
type TokenService interface {
  Issue(ctx context.Context, user *types.User) (string, error)
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type tokenService struct {
  log          *logger.Logger
  userRepo     repos.UserRepo
  jwtSecretKey string
  accessTTL    time.Duration
}

func NewTokenService(baseLog *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) TokenService {
  return &tokenService{
    log:          baseLog.With("service", "TokenService"),
    userRepo:     userRepo,
    jwtSecretKey: jwtSecretKey,
    accessTTL:    accessTTL,
  }
}

func (ts *tokenService) Issue(ctx context.Context, user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(ts.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
    Role: user.Role,
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(ts.jwtSecretKey))
}

func (ts *tokenService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(ts.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("invalid or expired token")
  }
  actorID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("invalid user id in token: %w", err)
  }
  user, err := ts.userRepo.GetByID(ctx, nil, actorID)
  if err != nil {
    return ctx, fmt.Errorf("failed to load user for token: %w", err)
  }
  if user == nil {
    return ctx, fmt.Errorf("user for token no longer exists")
  }
  rd := &requestdata.RequestData{
    TokenString:   tokenString,
    ActorID:       user.ID,
    Role:          user.Role,
    InstitutionID: user.InstitutionID,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}
