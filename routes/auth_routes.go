package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/jusdesk/jusdesk_backend/controllers"
	"github.com/jusdesk/jusdesk_backend/middleware"
)

// RegisterAuthRoutes registers signup/login/logout routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	authGroup := e.Group("/api/v1/auth")
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)

	protected := e.Group("/api/v1/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
	protected.POST("/fcm-token", authController.UpdateFCMToken)
}
