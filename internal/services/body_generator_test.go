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

// mockTemplateProvider is a mock implementation of TemplateProvider
type mockTemplateProvider struct {
	templates map[string]*models.Template
	err       error
}

func (m *mockTemplateProvider) GetTemplate(ctx context.Context, templateName string) (*models.Template, error) {
	if m.err != nil {
		return nil, m.err
	}
	template, ok := m.templates[templateName]
	if !ok {
		return nil, &NotFoundError{Message: "couldn't find template named " + templateName}
	}
	return template, nil
}

func TestBodyGenerator_GenerateBody(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name          string
		template      *models.Template
		provider      *mockTemplateProvider
		model         any
		expected      string
		expectedError string
	}{
		{
			name: "renders template without parent",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello {{ name }}!",
				EngineType: models.EngineA,
			},
			provider: &mockTemplateProvider{},
			model:    map[string]any{"name": "World"},
			expected: "Hello World!",
		},
		{
			name: "renders template with parent",
			template: &models.Template{
				Name:       "welcome",
				Parent:     "base",
				Body:       `{% extends "base" %}{% block content %}Hello {{ name }}!{% endblock %}`,
				EngineType: models.EngineA,
			},
			provider: &mockTemplateProvider{templates: map[string]*models.Template{
				"base": {
					Name:       "base",
					Body:       "<html>{% block content %}{% endblock %}</html>",
					EngineType: models.EngineA,
				},
			}},
			model:    map[string]any{"name": "World"},
			expected: "<html>Hello World!</html>",
		},
		{
			name:          "nil template",
			template:      nil,
			provider:      &mockTemplateProvider{},
			expectedError: "template is required",
		},
		{
			name: "missing parent template",
			template: &models.Template{
				Name:       "welcome",
				Parent:     "missing",
				Body:       "body",
				EngineType: models.EngineA,
			},
			provider:      &mockTemplateProvider{},
			expectedError: "couldn't find template named missing",
		},
		{
			name: "parent engine type mismatch",
			template: &models.Template{
				Name:       "welcome",
				Parent:     "base",
				Body:       "body",
				EngineType: models.EngineB,
			},
			provider: &mockTemplateProvider{templates: map[string]*models.Template{
				"base": {Name: "base", Body: "layout", EngineType: models.EngineA},
			}},
			expectedError: "template type welcome does not match type of the parent template base",
		},
		{
			name: "unknown engine type",
			template: &models.Template{
				Name:       "welcome",
				Body:       "body",
				EngineType: "EngineC",
			},
			provider:      &mockTemplateProvider{},
			expectedError: "unknown engine type",
		},
		{
			name: "provider error",
			template: &models.Template{
				Name:       "welcome",
				Parent:     "base",
				Body:       "body",
				EngineType: models.EngineA,
			},
			provider:      &mockTemplateProvider{err: errors.New("database error")},
			expectedError: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := NewBodyGenerator(tt.provider, logger)

			body, err := generator.GenerateBody(context.Background(), tt.template, tt.model)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, body)
			}
		})
	}
}
