package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"

	"github.com/notificationservice/backend/internal/config"
	"github.com/notificationservice/backend/internal/logger"
	"github.com/notificationservice/backend/internal/models"
	"github.com/notificationservice/backend/internal/queue"
	"github.com/notificationservice/backend/internal/repositories"
	"github.com/notificationservice/backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Notification Service consumer")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories and services
	templatesRepo := repositories.NewTemplatesRepository(db, logger.Logger)
	templateManager := services.NewTemplateManager(templatesRepo, logger.Logger)
	bodyGenerator := services.NewBodyGenerator(templateManager, logger.Logger)

	emailFactory := services.NewEmailMessageFactory(
		templateManager,
		bodyGenerator,
		models.EmailAddress{Address: cfg.SMTP.From},
		logger.Logger,
	)

	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	emailNotifier := services.NewEmailNotifier(dialer, cfg.SMTP.MaxExponentialRetries, logger.Logger)

	// Initialize the queue consumer
	handler := queue.NewNotificationHandler(emailFactory, emailNotifier, logger.Logger)
	consumer := queue.NewConsumer(cfg.RabbitMQ, cfg.AMQPURL(), handler, logger.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal("Failed to start consumer", zap.Error(err))
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down consumer...")

	cancel()
	if err := consumer.Stop(); err != nil {
		logger.Logger.Error("Failed to stop consumer", zap.Error(err))
	}

	logger.Logger.Info("Consumer exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
