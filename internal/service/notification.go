package service

import (
	"context"

	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/abelgk/elearn-backend/internal/repository"
	"go.uber.org/zap"
)

type NotificationService interface {
	// Notify is best-effort: failures are logged and swallowed so they can
	// never fail or roll back the flow that triggered them.
	Notify(ctx context.Context, userID uint64, typ, title, body string, earningID, paymentID *uint64)
	List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userID uint64) error
}

type notificationService struct {
	repo repository.NotificationRepository
	log  *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, log *zap.Logger) NotificationService {
	return &notificationService{repo: repo, log: log}
}

func (s *notificationService) Notify(ctx context.Context, userID uint64, typ, title, body string, earningID, paymentID *uint64) {
	if userID == 0 || typ == "" {
		return
	}
	n := &model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		EarningID: earningID,
		PaymentID: paymentID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("failed to store notification",
			zap.Uint64("user_id", userID),
			zap.String("type", typ),
			zap.Error(err))
	}
}

func (s *notificationService) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
