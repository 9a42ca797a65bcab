package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fadedistrict/go-booking-saas/shared/broadcast"
	"github.com/fadedistrict/go-booking-saas/shared/config"
	"github.com/fadedistrict/go-booking-saas/shared/middleware"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/notify"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize Redis for sessions, stats caching and pub/sub
	if err := utils.InitRedis(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer utils.CloseRedis()

	// Initialize database
	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&models.Business{}, &models.User{}, &models.Reservation{}, &models.FailedEmail{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Notification pipeline: queued dispatch with a direct SES fallback
	kafkaCfg := config.GetKafkaConfig()
	mailCfg := config.GetMailConfig()

	queued := notify.NewQueuedNotifier(kafkaCfg.Broker, kafkaCfg.EmailTopic)
	defer queued.Close()

	direct, err := notify.NewDirectNotifier(mailCfg.AWSRegion, mailCfg.DefaultFrom)
	if err != nil {
		log.Fatal("Failed to initialize mail transport:", err)
	}

	notifier := notify.NewFallbackNotifier(queued, direct)
	publisher := broadcast.NewBroadcaster()
	reservations := NewReservationService(db, notifier, publisher)

	authCfg := config.GetAuthConfig()
	authMiddleware := middleware.NewAuthMiddleware(authCfg)

	// Initialize Gin router
	router := gin.Default()

	// Every request resolves its tenant from the host before anything else
	router.Use(middleware.ResolveTenant(middleware.LookupActiveBusiness(db)))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Booking API is healthy", nil)
	})

	// Authentication routes
	auth := router.Group("/auth")
	{
		auth.POST("/register", handleRegister(db, publisher))
		auth.POST("/login", handleLogin(db, authMiddleware, authCfg))
		auth.POST("/logout", authMiddleware.RequireAuth(), handleLogout())
		auth.GET("/me", authMiddleware.RequireAuth(), handleMe(db))
	}

	// Business management routes
	businesses := router.Group("/businesses")
	businesses.Use(authMiddleware.RequireAuth())
	{
		businesses.GET("/", authMiddleware.RequireSuperAdmin(), handleListBusinesses(db))
		businesses.POST("/", authMiddleware.RequireSuperAdmin(), handleCreateBusiness(db, publisher))
		businesses.GET("/:id", handleGetBusiness(db))
		businesses.PUT("/:id", handleUpdateBusiness(db, publisher))
		businesses.DELETE("/:id", authMiddleware.RequireSuperAdmin(), handleDeleteBusiness(db, publisher))
		businesses.POST("/:id/activate", authMiddleware.RequireSuperAdmin(), handleActivateBusiness(db, publisher))
		businesses.POST("/:id/deactivate", authMiddleware.RequireSuperAdmin(), handleDeleteBusiness(db, publisher))
		businesses.GET("/:id/stats", handleBusinessStats(db))
	}

	// Reservation routes. Listing and booking are reachable without a
	// token so tenant subdomains can take public bookings.
	reservationRoutes := router.Group("/reservations")
	reservationRoutes.Use(authMiddleware.OptionalAuth())
	{
		reservationRoutes.GET("/", handleListReservations(db))
		reservationRoutes.POST("/", handleCreateReservation(db, reservations))
	}
	reservationRoutesAuth := router.Group("/reservations")
	reservationRoutesAuth.Use(authMiddleware.RequireAuth())
	{
		reservationRoutesAuth.GET("/:id", handleGetReservation(db))
		reservationRoutesAuth.PUT("/:id", handleUpdateReservation(db))
		reservationRoutesAuth.PUT("/:id/status", handleUpdateReservationStatus(db, reservations))
		reservationRoutesAuth.DELETE("/:id", authMiddleware.RequireSuperAdmin(), handleDeleteReservation(db))
	}

	// User management routes
	users := router.Group("/users")
	users.Use(authMiddleware.RequireAuth())
	{
		users.GET("/", authMiddleware.RequireSuperAdmin(), handleListUsers(db))
		users.POST("/", authMiddleware.RequireSuperAdmin(), handleCreateUser(db))
		users.GET("/:id", handleGetUser(db))
		users.PUT("/:id", handleUpdateUser(db))
		users.DELETE("/:id", authMiddleware.RequireSuperAdmin(), handleDeleteUser(db))
	}

	// Dashboard routes
	dashboard := router.Group("/dashboard")
	dashboard.Use(authMiddleware.RequireAuth(), authMiddleware.RequireSuperAdmin())
	{
		dashboard.GET("/stats", handleDashboardStats(db))
	}

	// Start server
	port := os.Getenv("API_SERVICE_PORT")
	if port == "" {
		port = "8001"
	}

	logrus.Infof("Booking API starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start booking API:", err)
	}
}
