package services

import (
	"context"
	"fmt"

	"github.com/adanepro/spotlightacademy-sub000/internal/apperr"
	"github.com/adanepro/spotlightacademy-sub000/internal/logger"
	"github.com/adanepro/spotlightacademy-sub000/internal/repos"
	"github.com/adanepro/spotlightacademy-sub000/internal/types"
)

// NotificationService surfaces the notifications written by the enrollment
// and grading flows back to their recipient.
type NotificationService interface {
	ListForActor(ctx context.Context, actor types.Actor) ([]*types.Notification, error)
}

type notificationService struct {
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
}

func NewNotificationService(baseLog *logger.Logger, notificationRepo repos.NotificationRepo) NotificationService {
	return &notificationService{
		log:              baseLog.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) ListForActor(ctx context.Context, actor types.Actor) ([]*types.Notification, error) {
	rows, err := s.notificationRepo.GetByUserID(ctx, nil, actor.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list notifications: %w", err))
	}
	return rows, nil
}
