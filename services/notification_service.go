package services

import (
	"context"
	"log"

	"github.com/jusdesk/jusdesk_backend/models"
	"github.com/jusdesk/jusdesk_backend/repositories"
	"github.com/jusdesk/jusdesk_backend/websocket"
)

// NotificationService composes the persist, push, and real-time delivery
// steps for a new notification. The repository itself never emits; every
// caller that wants live delivery goes through here.
type NotificationService struct {
	notifications *repositories.NotificationRepository
	users         *repositories.UserRepository
	bridge        *websocket.Bridge
	push          *PushService
}

func NewNotificationService(
	notifications *repositories.NotificationRepository,
	users *repositories.UserRepository,
	bridge *websocket.Bridge,
	push *PushService,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		bridge:        bridge,
		push:          push,
	}
}

// Create persists the notification, then broadcasts it to the user's room
// and pushes to their device when one is registered. Delivery failures are
// logged; the persisted row is the source of truth.
func (s *NotificationService) Create(ctx context.Context, notification *models.Notification) error {
	if !models.IsValidNotificationType(notification.Type) {
		return models.ErrValidationFailed
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return err
	}

	if s.bridge != nil {
		s.bridge.Broadcast(ctx, websocket.UserRoom(notification.UserID), "notification:new", notification)
	}

	if s.push != nil {
		user, err := s.users.FindByID(ctx, notification.UserID)
		if err != nil {
			log.Printf("Error resolving user for push delivery: %v", err)
			return nil
		}
		if user.FCMToken != "" {
			if err := s.push.Send(ctx, user.FCMToken, notification); err != nil {
				log.Printf("Error sending push notification: %v", err)
			}
		}
	}

	return nil
}
