package services

import (
	"context"
	"fmt"
	"log"

	"github.com/jusdesk/jusdesk_backend/models"
	"github.com/jusdesk/jusdesk_backend/repositories"
	"github.com/jusdesk/jusdesk_backend/websocket"
)

// MessageService composes the persist and delivery steps for a directed
// message. High-priority messages additionally go out by email.
type MessageService struct {
	messages *repositories.MessageRepository
	users    *repositories.UserRepository
	bridge   *websocket.Bridge
	mail     *MailService
}

func NewMessageService(
	messages *repositories.MessageRepository,
	users *repositories.UserRepository,
	bridge *websocket.Bridge,
	mail *MailService,
) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		bridge:   bridge,
		mail:     mail,
	}
}

// Send persists the message and broadcasts it to the recipient's room.
// Email delivery for high priority is best-effort and never blocks the
// send path.
func (s *MessageService) Send(ctx context.Context, message *models.Message) error {
	if message.Priority != "" && !models.IsValidMessagePriority(message.Priority) {
		return models.ErrValidationFailed
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return err
	}

	if s.bridge != nil {
		s.bridge.Broadcast(ctx, websocket.UserRoom(message.UserID), "message:new", message)
	}

	if message.Priority == models.MessagePriorityHigh && s.mail != nil {
		recipient, err := s.users.FindByID(ctx, message.UserID)
		if err != nil {
			log.Printf("Error resolving recipient for email delivery: %v", err)
			return nil
		}

		body := fmt.Sprintf("You received a high priority message:\n\n%s\n\n%s", message.Subject, message.Body)
		if err := s.mail.Send(recipient.Email, "[JusDesk] "+message.Subject, body); err != nil {
			log.Printf("Error sending email for high priority message: %v", err)
		}
	}

	return nil
}
