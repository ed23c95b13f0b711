package queue

import (
	"context"

	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

// EmailFactory builds a ready-to-send email from a notification
type EmailFactory interface {
	CreateFromNotification(ctx context.Context, notification *models.NotificationMessage) (*models.EmailMessage, error)
}

// EmailSender delivers an email message
type EmailSender interface {
	SendEmail(ctx context.Context, message *models.EmailMessage) error
}

// NotificationHandler turns queued notifications into delivered emails
type NotificationHandler struct {
	factory  EmailFactory
	notifier EmailSender
	logger   *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(factory EmailFactory, notifier EmailSender, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		factory:  factory,
		notifier: notifier,
		logger:   logger,
	}
}

// Handle builds and sends the email for a notification
func (h *NotificationHandler) Handle(ctx context.Context, notification *models.NotificationMessage) error {
	h.logger.Info("handling email notification",
		zap.String("service", notification.ServiceName),
		zap.String("template", notification.Message.TemplateName),
	)

	email, err := h.factory.CreateFromNotification(ctx, notification)
	if err != nil {
		return err
	}

	return h.notifier.SendEmail(ctx, email)
}
