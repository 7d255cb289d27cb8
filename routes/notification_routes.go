package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/jusdesk/jusdesk_backend/controllers"
	"github.com/jusdesk/jusdesk_backend/middleware"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(e *echo.Echo, notificationController *controllers.NotificationController) {
	notificationGroup := e.Group("/api/v1/notifications")
	notificationGroup.Use(middleware.JWTMiddleware())

	notificationGroup.GET("", notificationController.List)
	notificationGroup.GET("/recent", notificationController.Recent)
	notificationGroup.GET("/unread-count", notificationController.UnreadCount)
	notificationGroup.PUT("/read-all", notificationController.MarkAllAsRead)
	notificationGroup.PUT("/:id/read", notificationController.MarkAsRead)
	notificationGroup.DELETE("/:id", notificationController.Delete)
	notificationGroup.POST("", notificationController.Create)
}
