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

	"github.com/fadedistrict/go-booking-saas/shared/broadcast"
	"github.com/fadedistrict/go-booking-saas/shared/config"
	"github.com/fadedistrict/go-booking-saas/shared/models"
	"github.com/fadedistrict/go-booking-saas/shared/notify"
	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize Redis for dashboard broadcasts
	if err := utils.InitRedis(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer utils.CloseRedis()

	// Initialize database
	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&models.FailedEmail{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	mailCfg := config.GetMailConfig()
	direct, err := notify.NewDirectNotifier(mailCfg.AWSRegion, mailCfg.DefaultFrom)
	if err != nil {
		log.Fatal("Failed to initialize mail transport:", err)
	}

	kafkaCfg := config.GetKafkaConfig()
	consumer := NewEmailConsumer(kafkaCfg, direct, db)
	defer consumer.Close()

	retryWorker := NewRetryWorker(db, direct)
	sweeper := NewSweeper(db, broadcast.NewBroadcaster(), config.GetSweeperConfig().Interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go consumer.Run(ctx)
	go retryWorker.Run(ctx)
	go sweeper.Run(ctx)

	// Initialize Gin router for health and stats
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Mailer service is healthy", nil)
	})

	router.GET("/stats", func(c *gin.Context) {
		utils.OKResponse(c, "Retry statistics retrieved successfully", retryWorker.Stats())
	})

	// Start server
	port := os.Getenv("MAILER_SERVICE_PORT")
	if port == "" {
		port = "8002"
	}

	logrus.Infof("Mailer service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start mailer service:", err)
	}
}
