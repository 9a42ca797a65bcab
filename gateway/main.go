package main

import (
	"log"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fadedistrict/go-booking-saas/shared/utils"
)

func serviceURL(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	apiURL := serviceURL("API_SERVICE_URL", "http://localhost:8001")
	mailerURL := serviceURL("MAILER_SERVICE_URL", "http://localhost:8002")
	socketURL := serviceURL("SOCKET_SERVICE_URL", "http://localhost:8003")

	serviceClients := &ServiceClients{
		APIService:    NewServiceClient(apiURL),
		SocketService: NewServiceClient(socketURL),
		MailerService: NewServiceClient(mailerURL),
	}

	// Websocket upgrades need a real reverse proxy, not a buffered copy
	socketTarget, err := url.Parse(socketURL)
	if err != nil {
		log.Fatal("Invalid SOCKET_SERVICE_URL:", err)
	}
	socketProxy := httputil.NewSingleHostReverseProxy(socketTarget)

	// Initialize Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint with backend service status
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Gateway is healthy", serviceClients.GetServiceStatus())
	})

	// Booking API routes. Auth and tenant checks happen in the API
	// service itself, since tenant resolution depends on the Host header.
	api := []string{"/auth", "/businesses", "/reservations", "/users", "/dashboard"}
	for _, prefix := range api {
		router.Any(prefix+"/*path", serviceClients.APIService.ProxyRequest)
	}

	// Websocket routes
	router.GET("/ws/*path", func(c *gin.Context) {
		socketProxy.ServeHTTP(c.Writer, c.Request)
	})

	// Mailer observability routes
	router.GET("/mailer/stats", func(c *gin.Context) {
		c.Request.URL.Path = "/stats"
		serviceClients.MailerService.ProxyRequest(c)
	})

	// Start server
	port := os.Getenv("GATEWAY_PORT")
	if port == "" {
		port = "8080"
	}

	logrus.Infof("Gateway starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start gateway:", err)
	}
}
