// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	SMTP     SMTPConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RabbitMQConfig holds broker connection and topology settings.
// Read once at consumer start; there is no hot-reload.
type RabbitMQConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	ExchangeName       string
	QueueName          string
	RoutingKey         string
	MaxParallelization int
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// MaxExponentialRetries caps the exponent of the retry backoff: every
	// retry beyond it waits 2^MaxExponentialRetries seconds. Retrying itself
	// never stops.
	MaxExponentialRetries int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// RabbitMQ configuration
	rabbitHost := os.Getenv("RABBITMQ_HOST")
	if rabbitHost == "" {
		rabbitHost = "localhost" // default
	}
	cfg.RabbitMQ.Host = rabbitHost

	rabbitPortStr := os.Getenv("RABBITMQ_PORT")
	if rabbitPortStr == "" {
		rabbitPortStr = "5672" // default AMQP port
	}
	rabbitPort, err := strconv.Atoi(rabbitPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RABBITMQ_PORT: %w", err)
	}
	cfg.RabbitMQ.Port = rabbitPort

	rabbitUser := os.Getenv("RABBITMQ_USERNAME")
	if rabbitUser == "" {
		rabbitUser = "guest" // default
	}
	cfg.RabbitMQ.Username = rabbitUser

	rabbitPassword := os.Getenv("RABBITMQ_PASSWORD")
	if rabbitPassword == "" {
		rabbitPassword = "guest" // default
	}
	cfg.RabbitMQ.Password = rabbitPassword

	exchangeName := os.Getenv("RABBITMQ_EXCHANGE")
	if exchangeName == "" {
		exchangeName = "notifications"
	}
	cfg.RabbitMQ.ExchangeName = exchangeName

	queueName := os.Getenv("RABBITMQ_QUEUE")
	if queueName == "" {
		queueName = "email-notifications"
	}
	cfg.RabbitMQ.QueueName = queueName

	routingKey := os.Getenv("RABBITMQ_ROUTING_KEY")
	if routingKey == "" {
		routingKey = "email"
	}
	cfg.RabbitMQ.RoutingKey = routingKey

	maxParallelStr := os.Getenv("RABBITMQ_MAX_PARALLELIZATION")
	if maxParallelStr == "" {
		maxParallelStr = "10" // default
	}
	maxParallel, err := strconv.Atoi(maxParallelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RABBITMQ_MAX_PARALLELIZATION: %w", err)
	}
	if maxParallel <= 0 {
		return nil, fmt.Errorf("RABBITMQ_MAX_PARALLELIZATION must be a positive integer")
	}
	cfg.RabbitMQ.MaxParallelization = maxParallel

	// SMTP configuration
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "localhost" // default
	}
	cfg.SMTP.Host = smtpHost

	smtpPortStr := os.Getenv("SMTP_PORT")
	if smtpPortStr == "" {
		smtpPortStr = "587" // default
	}
	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTP.Port = smtpPort

	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME") // optional
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD") // optional

	smtpFrom := os.Getenv("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = "noreply@notificationservice.local" // default
	}
	cfg.SMTP.From = smtpFrom

	maxRetriesStr := os.Getenv("SMTP_MAX_EXPONENTIAL_RETRIES")
	if maxRetriesStr == "" {
		maxRetriesStr = "8" // default: waits cap at 256 seconds
	}
	maxRetries, err := strconv.Atoi(maxRetriesStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_MAX_EXPONENTIAL_RETRIES: %w", err)
	}
	cfg.SMTP.MaxExponentialRetries = maxRetries

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		// Default to allow all origins if not specified (for development)
		cfg.CORS.AllowedOrigins = []string{"*"}
	} else {
		// Parse comma-separated origins
		origins := strings.Split(corsOrigins, ",")
		cfg.CORS.AllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, origin)
			}
		}
	}

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	accessExpiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if accessExpiryStr == "" {
		accessExpiryStr = "15m" // default
	}
	accessExpiry, err := time.ParseDuration(accessExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// AMQPURL returns the broker connection string
func (c *Config) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.Username,
		c.RabbitMQ.Password,
		c.RabbitMQ.Host,
		c.RabbitMQ.Port,
	)
}
