package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message priorities
const (
	MessagePriorityLow    = "low"
	MessagePriorityNormal = "normal"
	MessagePriorityHigh   = "high"
)

// Message model. A message is directed from an optional sender to exactly
// one recipient.
type Message struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"userId" bson:"userId"` // The recipient
	SenderID  *primitive.ObjectID `json:"senderId,omitempty" bson:"senderId,omitempty"`
	Subject   string              `json:"subject" bson:"subject"`
	Body      string              `json:"body" bson:"body"`
	Priority  string              `json:"priority" bson:"priority"`
	Metadata  interface{}         `json:"metadata,omitempty" bson:"metadata,omitempty"`
	ReadAt    *time.Time          `json:"readAt,omitempty" bson:"readAt,omitempty"` // nil while unread
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsValidMessagePriority reports whether p is one of the known priorities
func IsValidMessagePriority(p string) bool {
	return p == MessagePriorityLow || p == MessagePriorityNormal || p == MessagePriorityHigh
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	UserID   string      `json:"userId" validate:"required"`
	Subject  string      `json:"subject" validate:"required"`
	Body     string      `json:"body" validate:"required"`
	Priority string      `json:"priority,omitempty"`
	Metadata interface{} `json:"metadata,omitempty"`
}
