package services

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"

	"github.com/jusdesk/jusdesk_backend/models"
)

// PushService delivers notifications through FCM. It is a no-op when the
// Firebase app is not configured.
type PushService struct {
	app *firebase.App
}

func NewPushService(app *firebase.App) *PushService {
	return &PushService{app: app}
}

// Send pushes one notification to the device token. Errors are returned
// for the caller to log; push failure never fails the originating action.
func (s *PushService) Send(ctx context.Context, fcmToken string, notification *models.Notification) error {
	if s.app == nil || fcmToken == "" {
		return nil
	}

	client, err := s.app.Messaging(ctx)
	if err != nil {
		return err
	}

	message := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Data: map[string]string{
			"type":           notification.Type,
			"notificationId": notification.ID.Hex(),
			"actionUrl":      notification.ActionURL,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "jusdesk_fcm_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: notification.Title,
						Body:  notification.Message,
					},
					Sound: "default",
				},
			},
		},
	}

	response, err := client.Send(ctx, message)
	if err != nil {
		return err
	}

	log.Printf("Push notification sent: %s", response)
	return nil
}
