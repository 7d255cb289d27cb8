package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/jusdesk/jusdesk_backend/controllers"
	"github.com/jusdesk/jusdesk_backend/middleware"
)

// RegisterMessageRoutes registers all message-related routes
func RegisterMessageRoutes(e *echo.Echo, messageController *controllers.MessageController) {
	messageGroup := e.Group("/api/v1/messages")
	messageGroup.Use(middleware.JWTMiddleware())

	messageGroup.GET("", messageController.List)
	messageGroup.GET("/recent", messageController.Recent)
	messageGroup.GET("/unread-count", messageController.UnreadCount)
	messageGroup.PUT("/read-all", messageController.MarkAllAsRead)
	messageGroup.PUT("/:id/read", messageController.MarkAsRead)
	messageGroup.DELETE("/:id", messageController.Delete)
	messageGroup.POST("", messageController.Send)
}
