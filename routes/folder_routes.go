package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/jusdesk/jusdesk_backend/controllers"
	"github.com/jusdesk/jusdesk_backend/middleware"
)

// RegisterFolderRoutes registers folder CRUD and favorites routes
func RegisterFolderRoutes(e *echo.Echo, folderController *controllers.FolderController, favoriteController *controllers.FavoriteController) {
	folderGroup := e.Group("/api/v1/folders")
	folderGroup.Use(middleware.JWTMiddleware())

	// Favorites before the :id routes so "favorites" is not parsed as an id
	folderGroup.GET("/favorites", favoriteController.List)
	folderGroup.POST("/favorites/bulk", favoriteController.BulkToggle)

	folderGroup.GET("", folderController.List)
	folderGroup.POST("", folderController.Create)
	folderGroup.GET("/:id", folderController.Get)
	folderGroup.PUT("/:id", folderController.Update)
	folderGroup.DELETE("/:id", folderController.Delete)

	folderGroup.POST("/:id/favorite", favoriteController.Toggle)
	folderGroup.PUT("/:id/favorite", favoriteController.Add)
	folderGroup.DELETE("/:id/favorite", favoriteController.Remove)
}
