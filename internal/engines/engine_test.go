package engines

import (
	"testing"

	"github.com/notificationservice/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		engineType    models.EngineType
		expectedError bool
	}{
		{name: "liquid engine", engineType: models.EngineA},
		{name: "razor engine", engineType: models.EngineB},
		{name: "unknown engine type", engineType: "EngineC", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := New(tt.engineType, testLogger())

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, engine)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, engine)
			}
		})
	}
}

func TestLiquidEngine_Render(t *testing.T) {
	tests := []struct {
		name          string
		template      *models.Template
		parent        *models.Template
		model         any
		expected      string
		expectedError bool
	}{
		{
			name: "simple variable substitution",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello {{ name }}!",
				EngineType: models.EngineA,
			},
			model:    map[string]any{"name": "World"},
			expected: "Hello World!",
		},
		{
			name: "missing variable renders empty",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello {{ name }}!",
				EngineType: models.EngineA,
			},
			model:    map[string]any{},
			expected: "Hello !",
		},
		{
			name: "struct model",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello {{ name }}!",
				EngineType: models.EngineA,
			},
			model: struct {
				Name string `json:"name"`
			}{Name: "World"},
			expected: "Hello World!",
		},
		{
			name: "nil model",
			template: &models.Template{
				Name:       "static",
				Body:       "No variables here",
				EngineType: models.EngineA,
			},
			expected: "No variables here",
		},
		{
			name: "child extends parent",
			template: &models.Template{
				Name:       "welcome",
				Parent:     "base",
				Body:       `{% extends "base" %}{% block content %}Hello {{ name }}!{% endblock %}`,
				EngineType: models.EngineA,
			},
			parent: &models.Template{
				Name:       "base",
				Body:       "<html>{% block content %}{% endblock %}</html>",
				EngineType: models.EngineA,
			},
			model:    map[string]any{"name": "World"},
			expected: "<html>Hello World!</html>",
		},
		{
			name: "wrong engine type",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello",
				EngineType: models.EngineB,
			},
			expectedError: true,
		},
		{
			name: "invalid template syntax",
			template: &models.Template{
				Name:       "broken",
				Body:       "{% block %}",
				EngineType: models.EngineA,
			},
			expectedError: true,
		},
		{
			name: "extends without registered parent",
			template: &models.Template{
				Name:       "orphan",
				Parent:     "base",
				Body:       `{% extends "base" %}`,
				EngineType: models.EngineA,
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newLiquidEngine(testLogger())
			engine.AddParentTemplate(tt.parent)

			out, err := engine.Render(tt.template, tt.model)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, out)
			}
		})
	}
}

func TestRazorEngine_Render(t *testing.T) {
	tests := []struct {
		name          string
		template      *models.Template
		parent        *models.Template
		model         any
		expected      string
		expectedError bool
	}{
		{
			name: "model reference substitution",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello @Model.Name!",
				EngineType: models.EngineB,
			},
			model:    map[string]any{"Name": "World"},
			expected: "Hello World!",
		},
		{
			name: "case insensitive lookup",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello @Model.Name!",
				EngineType: models.EngineB,
			},
			model:    map[string]any{"name": "World"},
			expected: "Hello World!",
		},
		{
			name: "nested model path",
			template: &models.Template{
				Name:       "order",
				Body:       "Order @Model.Order.Id for @Model.Customer.Name",
				EngineType: models.EngineB,
			},
			model: map[string]any{
				"order":    map[string]any{"id": 42},
				"customer": map[string]any{"name": "Alice"},
			},
			expected: "Order 42 for Alice",
		},
		{
			name: "struct model",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello @Model.Name!",
				EngineType: models.EngineB,
			},
			model:    struct{ Name string }{Name: "World"},
			expected: "Hello World!",
		},
		{
			name: "missing reference renders empty",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello @Model.Missing!",
				EngineType: models.EngineB,
			},
			model:    map[string]any{"Name": "World"},
			expected: "Hello !",
		},
		{
			name: "render body stripped without parent",
			template: &models.Template{
				Name:       "base",
				Body:       "<h1>@RenderBody()</h1><h2>It is base template.</h2>",
				EngineType: models.EngineB,
			},
			expected: "<h1></h1><h2>It is base template.</h2>",
		},
		{
			name: "child spliced into parent layout",
			template: &models.Template{
				Name:       "welcome",
				Parent:     "base",
				Body:       `@{Layout = "base";}Hello @Model.Name!`,
				EngineType: models.EngineB,
			},
			parent: &models.Template{
				Name:       "base",
				Body:       "<html>@RenderBody()</html>",
				EngineType: models.EngineB,
			},
			model:    map[string]any{"Name": "World"},
			expected: "<html>Hello World!</html>",
		},
		{
			name: "wrong engine type",
			template: &models.Template{
				Name:       "welcome",
				Body:       "Hello",
				EngineType: models.EngineA,
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newRazorEngine(testLogger())
			engine.AddParentTemplate(tt.parent)

			out, err := engine.Render(tt.template, tt.model)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, out)
			}
		})
	}
}
