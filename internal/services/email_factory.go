package services

import (
	"context"
	"strings"

	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

// EmailBodyGenerator renders a template into the email body
type EmailBodyGenerator interface {
	GenerateBody(ctx context.Context, template *models.Template, model any) (string, error)
}

// EmailMessageFactory assembles a ready-to-send email message from a
// notification: it loads the template, renders the body and fills in
// the subject and sender fallbacks.
type EmailMessageFactory struct {
	templates   TemplateProvider
	generator   EmailBodyGenerator
	defaultFrom models.EmailAddress
	logger      *zap.Logger
}

// NewEmailMessageFactory creates a new email message factory
func NewEmailMessageFactory(templates TemplateProvider, generator EmailBodyGenerator, defaultFrom models.EmailAddress, logger *zap.Logger) *EmailMessageFactory {
	return &EmailMessageFactory{
		templates:   templates,
		generator:   generator,
		defaultFrom: defaultFrom,
		logger:      logger,
	}
}

// CreateFromNotification builds an email message from a queued notification
func (f *EmailMessageFactory) CreateFromNotification(ctx context.Context, notification *models.NotificationMessage) (*models.EmailMessage, error) {
	if notification == nil {
		return nil, &ValidationError{Message: "notification message is required"}
	}

	f.logger.Info("creating email message", zap.String("template", notification.Message.TemplateName))

	template, err := f.templates.GetTemplate(ctx, notification.Message.TemplateName)
	if err != nil {
		return nil, err
	}

	f.logger.Info("template loaded",
		zap.String("name", template.Name),
		zap.String("engine_type", string(template.EngineType)),
		zap.String("parent", template.Parent),
	)

	body, err := f.generator.GenerateBody(ctx, template, notification.Message.Params)
	if err != nil {
		return nil, err
	}

	message := notification.Message

	// Template title serves as subject when the notification carries none
	subject := message.Subject
	if strings.TrimSpace(subject) == "" {
		subject = template.Title
	}

	from := message.From
	if from == nil {
		from = &f.defaultFrom
	}

	return models.NewEmailMessage(subject, body, from, message.To, message.Cc)
}
