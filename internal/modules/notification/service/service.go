package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/campuseventhub/internal/entity"
	notifRepo "anoa.com/campuseventhub/internal/modules/notification/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType entity.NotificationType, message string, refID *uuid.UUID) error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client, logger *zap.Logger) NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		logger:      logger,
	}
}

// Notify stores the notification and, when Redis is up, publishes it so
// connected websocket clients receive it live. Live delivery is best
// effort; the stored row is the source of truth.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, notifType entity.NotificationType, message string, refID *uuid.UUID) error {
	notification := &entity.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
		RefID:   refID,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", userID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			if perr := s.redisClient.Publish(ctx, channel, payload).Err(); perr != nil {
				s.logger.Warn("failed to publish notification", zap.String("channel", channel), zap.Error(perr))
			}
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	rows, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}

	if rows == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
