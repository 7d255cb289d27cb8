package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jusdesk/jusdesk_backend/config"
	"github.com/jusdesk/jusdesk_backend/controllers"
	"github.com/jusdesk/jusdesk_backend/middleware"
	"github.com/jusdesk/jusdesk_backend/repositories"
	"github.com/jusdesk/jusdesk_backend/routes"
	"github.com/jusdesk/jusdesk_backend/services"
	ws "github.com/jusdesk/jusdesk_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// healthHandler reports liveness; the database field reflects an actual ping
func healthHandler(client *mongo.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := client.Ping(ctx, nil); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}

		return c.JSON(http.StatusOK, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	}
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase (optional, push delivery)
	config.InitFirebase()

	// Connect to Redis (optional, cross-instance broadcast relay)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Real-time layer: connection registry, fan-out bridge, relay loop
	hub := ws.NewHub()

	var publisher ws.Publisher
	if redisClient != nil {
		publisher = ws.NewRedisPublisher(redisClient)
	}
	bridge := ws.NewBridge(hub, publisher, ws.DefaultBridgeChannel)
	if redisClient != nil {
		go ws.RunRedisSubscriber(context.Background(), redisClient, bridge)
	}

	wsHandler := ws.NewHandler(hub, middleware.GetJWTSecret(), ws.MongoUserResolver(client), ws.AllowAll)

	// Repositories
	userRepo := repositories.NewUserRepository(client)
	notificationRepo := repositories.NewNotificationRepository(client)
	messageRepo := repositories.NewMessageRepository(client)
	folderRepo := repositories.NewFolderRepository(client)
	favoriteRepo := repositories.NewFavoriteRepository(client)

	// Services
	pushService := services.NewPushService(config.FirebaseApp)
	mailService := services.NewMailService()
	notificationService := services.NewNotificationService(notificationRepo, userRepo, bridge, pushService)
	messageService := services.NewMessageService(messageRepo, userRepo, bridge, mailService)

	// Controllers
	authController := controllers.NewAuthController(client, userRepo)
	notificationController := controllers.NewNotificationController(notificationRepo, notificationService)
	messageController := controllers.NewMessageController(messageRepo, messageService)
	folderController := controllers.NewFolderController(folderRepo, bridge)
	favoriteController := controllers.NewFavoriteController(favoriteRepo)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "JusDesk Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", healthHandler(client))

	// Setup routes
	routes.SetupRoutes(e, wsHandler, authController, notificationController, messageController, folderController, favoriteController)

	// Expired blacklisted tokens are swept in the background
	go middleware.CleanupBlacklist()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
