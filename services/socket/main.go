package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fadedistrict/go-booking-saas/shared/config"
	"github.com/fadedistrict/go-booking-saas/shared/middleware"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize Redis for pub/sub and token sessions
	if err := utils.InitRedis(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer utils.CloseRedis()

	authMiddleware := middleware.NewAuthMiddleware(config.GetAuthConfig())

	hub := NewHub()
	subscriber := NewSubscriber(hub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go subscriber.Run(ctx)

	// Initialize Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Socket service is healthy", nil)
	})

	// Connection statistics endpoint
	router.GET("/stats", func(c *gin.Context) {
		dashboard, notification := hub.ClientCounts()
		utils.OKResponse(c, "Connection statistics retrieved successfully", gin.H{
			"dashboard_clients":    dashboard,
			"notification_clients": notification,
		})
	})

	// Websocket endpoints
	router.GET("/ws/dashboard", handleDashboardSocket(hub, authMiddleware))
	router.GET("/ws/notifications", handleNotificationSocket(hub, authMiddleware))

	// Start server
	port := os.Getenv("SOCKET_SERVICE_PORT")
	if port == "" {
		port = "8003"
	}

	logrus.Infof("Socket service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start socket service:", err)
	}
}
