package services

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/adanepro/spotlightacademy-sub000/internal/logger"
  "github.com/adanepro/spotlightacademy-sub000/internal/requestdata"
  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

func TestTokenRoundTrip(t *testing.T) {
  e := newTestEnv(t)
  user := e.createUser(t, "student", types.RoleStudent, uuid.New())
  svc := NewTokenService(logger.NewNop(), e.userRepo, "test-secret", time.Hour)

  ctx := context.Background()
  token, err := svc.Issue(ctx, user)
  if err != nil {
    t.Fatalf("issue: %v", err)
  }

  ctx, err = svc.SetContextFromToken(ctx, token)
  if err != nil {
    t.Fatalf("parse: %v", err)
  }
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    t.Fatalf("no request data in context")
  }
  if rd.ActorID != user.ID {
    t.Fatalf("actor id: want=%s got=%s", user.ID, rd.ActorID)
  }
  if rd.Role != types.RoleStudent {
    t.Fatalf("role: want=%q got=%q", types.RoleStudent, rd.Role)
  }
  if rd.InstitutionID != user.InstitutionID {
    t.Fatalf("institution: want=%s got=%s", user.InstitutionID, rd.InstitutionID)
  }
}

func TestTokenRejectsWrongSecret(t *testing.T) {
  e := newTestEnv(t)
  user := e.createUser(t, "student", types.RoleStudent, uuid.New())
  issuer := NewTokenService(logger.NewNop(), e.userRepo, "secret-a", time.Hour)
  verifier := NewTokenService(logger.NewNop(), e.userRepo, "secret-b", time.Hour)

  ctx := context.Background()
  token, err := issuer.Issue(ctx, user)
  if err != nil {
    t.Fatalf("issue: %v", err)
  }
  if _, err := verifier.SetContextFromToken(ctx, token); err == nil {
    t.Fatalf("expected error for wrong signing key")
  }
}

func TestTokenRejectsDeletedUser(t *testing.T) {
  e := newTestEnv(t)
  user := e.createUser(t, "student", types.RoleStudent, uuid.New())
  svc := NewTokenService(logger.NewNop(), e.userRepo, "test-secret", time.Hour)

  ctx := context.Background()
  token, err := svc.Issue(ctx, user)
  if err != nil {
    t.Fatalf("issue: %v", err)
  }
  if err := e.db.Delete(user).Error; err != nil {
    t.Fatalf("delete user: %v", err)
  }
  if _, err := svc.SetContextFromToken(ctx, token); err == nil {
    t.Fatalf("expected error for deleted user")
  }
}
