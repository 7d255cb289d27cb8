package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeInfo     = "info"
	NotificationTypeSuccess  = "success"
	NotificationTypeWarning  = "warning"
	NotificationTypeError    = "error"
	NotificationTypeTask     = "task"
	NotificationTypeHearing  = "hearing"
	NotificationTypeDeadline = "deadline"
)

// Notification model
type Notification struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"` // The user who receives the notification
	Type       string             `json:"type" bson:"type"`
	Title      string             `json:"title" bson:"title"`
	Message    string             `json:"message" bson:"message"`
	Data       interface{}        `json:"data,omitempty" bson:"data,omitempty"`
	ActionURL  string             `json:"actionUrl,omitempty" bson:"actionUrl,omitempty"`
	ActionText string             `json:"actionText,omitempty" bson:"actionText,omitempty"`
	ReadAt     *time.Time         `json:"readAt,omitempty" bson:"readAt,omitempty"` // nil while unread
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsValidNotificationType reports whether t is one of the known notification types
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning,
		NotificationTypeError, NotificationTypeTask, NotificationTypeHearing,
		NotificationTypeDeadline:
		return true
	}
	return false
}

// CreateNotificationRequest represents the request body for creating a notification
type CreateNotificationRequest struct {
	UserID     string      `json:"userId" validate:"required"`
	Type       string      `json:"type" validate:"required"`
	Title      string      `json:"title" validate:"required"`
	Message    string      `json:"message" validate:"required"`
	Data       interface{} `json:"data,omitempty"`
	ActionURL  string      `json:"actionUrl,omitempty"`
	ActionText string      `json:"actionText,omitempty"`
}
