package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/realtime"
	"github.com/Muhammad-Huzaifa24/backend-PMS/repositories"
)

// Presence resolves a user to their active connection, if any. Injected so
// tests can run against a fake registry.
type Presence interface {
	Lookup(userID string) (*realtime.Connection, bool)
}

// PushPayload is the body of every real-time task event.
type PushPayload struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

// NotificationService writes durable notification records and pushes a
// best-effort real-time event to the target user's connection when one is
// registered. A failed push is logged and dropped, never retried; the stored
// record is the source of truth.
type NotificationService struct {
	notifications repositories.NotificationRepository
	presence      Presence
}

func NewNotificationService(notifications repositories.NotificationRepository, presence Presence) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		presence:      presence,
	}
}

// Dispatch stores an unread notification for the user, then emits the named
// event to their connection if they are online. The storage write is the
// only step that can fail.
func (s *NotificationService) Dispatch(ctx context.Context, userID primitive.ObjectID, title, description, event, message string, taskID primitive.ObjectID) (*models.Notification, error) {
	notification := &models.Notification{
		Title:       title,
		Description: description,
		UserID:      userID,
		IsRead:      false,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to create notification", err)
	}

	if conn, ok := s.presence.Lookup(userID.Hex()); ok {
		payload := PushPayload{Message: message, TaskID: taskID.Hex()}
		if err := conn.Emit(event, payload); err != nil {
			logging.Logger.Warnf("Failed to push %s event to user %s: %v", event, userID.Hex(), err)
		}
	}

	return notification, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid user id")
	}

	notifications, err := s.notifications.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return nil, models.NewError(models.ErrCodeNotFound, "no notifications found")
	}
	return notifications, nil
}

// MarkRead flips the read flag, the only mutation a notification allows.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	id, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return models.NewError(models.ErrCodeInvalid, "invalid notification id")
	}
	return s.notifications.MarkRead(ctx, id)
}
