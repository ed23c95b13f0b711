package services

import (
	"context"
	"errors"
	"testing"

	"github.com/notificationservice/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockBodyGenerator is a mock implementation of EmailBodyGenerator
type mockBodyGenerator struct {
	body string
	err  error
}

func (m *mockBodyGenerator) GenerateBody(ctx context.Context, template *models.Template, model any) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.body, nil
}

func TestEmailMessageFactory_CreateFromNotification(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	defaultFrom := models.EmailAddress{Address: "noreply@example.com", DisplayName: "Notification Service"}

	welcomeTemplate := &models.Template{
		Name:       "welcome",
		Title:      "Welcome aboard",
		Body:       "Hello {{ name }}!",
		EngineType: models.EngineA,
	}

	tests := []struct {
		name          string
		notification  *models.NotificationMessage
		provider      *mockTemplateProvider
		generator     *mockBodyGenerator
		expectedError string
		check         func(t *testing.T, email *models.EmailMessage)
	}{
		{
			name: "explicit subject and sender",
			notification: &models.NotificationMessage{
				Message: models.EmailNotification{
					Subject:      "Custom subject",
					TemplateName: "welcome",
					From:         &models.EmailAddress{Address: "ops@example.com", DisplayName: "Ops"},
					To:           []string{"user@example.com"},
					Cc:           []string{"copy@example.com"},
				},
			},
			provider:  &mockTemplateProvider{templates: map[string]*models.Template{"welcome": welcomeTemplate}},
			generator: &mockBodyGenerator{body: "Hello World!"},
			check: func(t *testing.T, email *models.EmailMessage) {
				assert.Equal(t, "Custom subject", email.Subject)
				assert.Equal(t, "Hello World!", email.Body)
				assert.Equal(t, "ops@example.com", email.From.Address)
				assert.Equal(t, []string{"user@example.com"}, email.To)
				assert.Equal(t, []string{"copy@example.com"}, email.Cc)
			},
		},
		{
			name: "blank subject falls back to template title",
			notification: &models.NotificationMessage{
				Message: models.EmailNotification{
					Subject:      "   ",
					TemplateName: "welcome",
					To:           []string{"user@example.com"},
				},
			},
			provider:  &mockTemplateProvider{templates: map[string]*models.Template{"welcome": welcomeTemplate}},
			generator: &mockBodyGenerator{body: "Hello World!"},
			check: func(t *testing.T, email *models.EmailMessage) {
				assert.Equal(t, "Welcome aboard", email.Subject)
			},
		},
		{
			name: "missing sender falls back to default",
			notification: &models.NotificationMessage{
				Message: models.EmailNotification{
					TemplateName: "welcome",
					To:           []string{"user@example.com"},
				},
			},
			provider:  &mockTemplateProvider{templates: map[string]*models.Template{"welcome": welcomeTemplate}},
			generator: &mockBodyGenerator{body: "Hello World!"},
			check: func(t *testing.T, email *models.EmailMessage) {
				require.NotNil(t, email.From)
				assert.Equal(t, "noreply@example.com", email.From.Address)
				assert.Equal(t, "Notification Service", email.From.DisplayName)
			},
		},
		{
			name:          "nil notification",
			notification:  nil,
			provider:      &mockTemplateProvider{},
			generator:     &mockBodyGenerator{},
			expectedError: "notification message is required",
		},
		{
			name: "template not found",
			notification: &models.NotificationMessage{
				Message: models.EmailNotification{
					TemplateName: "missing",
					To:           []string{"user@example.com"},
				},
			},
			provider:      &mockTemplateProvider{},
			generator:     &mockBodyGenerator{},
			expectedError: "couldn't find template named missing",
		},
		{
			name: "body generation fails",
			notification: &models.NotificationMessage{
				Message: models.EmailNotification{
					TemplateName: "welcome",
					To:           []string{"user@example.com"},
				},
			},
			provider:      &mockTemplateProvider{templates: map[string]*models.Template{"welcome": welcomeTemplate}},
			generator:     &mockBodyGenerator{err: errors.New("render error")},
			expectedError: "render error",
		},
		{
			name: "no recipients",
			notification: &models.NotificationMessage{
				Message: models.EmailNotification{
					TemplateName: "welcome",
				},
			},
			provider:      &mockTemplateProvider{templates: map[string]*models.Template{"welcome": welcomeTemplate}},
			generator:     &mockBodyGenerator{body: "Hello World!"},
			expectedError: "to should contain recipients",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewEmailMessageFactory(tt.provider, tt.generator, defaultFrom, logger)

			email, err := factory.CreateFromNotification(context.Background(), tt.notification)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, email)
			} else {
				require.NoError(t, err)
				require.NotNil(t, email)
				tt.check(t, email)
			}
		})
	}
}
