package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/jusdesk/jusdesk_backend/controllers"
	ws "github.com/jusdesk/jusdesk_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(
	e *echo.Echo,
	wsHandler *ws.Handler,
	authController *controllers.AuthController,
	notificationController *controllers.NotificationController,
	messageController *controllers.MessageController,
	folderController *controllers.FolderController,
	favoriteController *controllers.FavoriteController,
) {
	RegisterAuthRoutes(e, authController)
	RegisterNotificationRoutes(e, notificationController)
	RegisterMessageRoutes(e, messageController)
	RegisterFolderRoutes(e, folderController, favoriteController)

	// The websocket endpoint authenticates its own handshake; the JWT
	// middleware is not applied here because browser websocket clients
	// cannot set headers and pass the token as a query parameter instead.
	e.GET("/api/v1/ws", wsHandler.HandleWebSocket)
}
