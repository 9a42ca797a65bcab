package config

import (
	"os"
	"strconv"
	"time"
)

// KafkaConfig holds Kafka broker settings for the email job queue
type KafkaConfig struct {
	Broker        string
	EmailTopic    string
	ConsumerGroup string
}

// GetKafkaConfig returns Kafka configuration from environment variables
func GetKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		Broker:        getEnv("KAFKA_BROKER", "localhost:9092"),
		EmailTopic:    getEnv("KAFKA_EMAIL_TOPIC", "email-jobs"),
		ConsumerGroup: getEnv("KAFKA_EMAIL_GROUP", "mailer-service"),
	}
}

// MailConfig holds outbound email settings
type MailConfig struct {
	AWSRegion   string
	DefaultFrom string
}

// GetMailConfig returns mail configuration from environment variables
func GetMailConfig() *MailConfig {
	return &MailConfig{
		AWSRegion:   getEnv("AWS_REGION", "eu-central-1"),
		DefaultFrom: getEnv("DEFAULT_FROM_EMAIL", "noreply@fadedistrict.com"),
	}
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// GetAuthConfig returns auth configuration from environment variables
func GetAuthConfig() *AuthConfig {
	return &AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_SECONDS", 86400)) * time.Second,
	}
}

// SweeperConfig holds the overdue-reservation sweeper settings
type SweeperConfig struct {
	Interval time.Duration
}

// GetSweeperConfig returns sweeper configuration from environment variables
func GetSweeperConfig() *SweeperConfig {
	return &SweeperConfig{
		Interval: time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 600)) * time.Second,
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
