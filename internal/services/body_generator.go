package services

import (
	"context"
	"fmt"

	"github.com/notificationservice/backend/internal/engines"
	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

// TemplateProvider resolves templates by name
type TemplateProvider interface {
	GetTemplate(ctx context.Context, templateName string) (*models.Template, error)
}

// BodyGenerator renders a message template with a model into the final
// email body, resolving the parent template when the template has one.
type BodyGenerator struct {
	templates TemplateProvider
	logger    *zap.Logger
}

// NewBodyGenerator creates a new body generator
func NewBodyGenerator(templates TemplateProvider, logger *zap.Logger) *BodyGenerator {
	return &BodyGenerator{
		templates: templates,
		logger:    logger,
	}
}

// GenerateBody renders the template with the given model
func (g *BodyGenerator) GenerateBody(ctx context.Context, template *models.Template, model any) (string, error) {
	if template == nil {
		return "", &ValidationError{Message: "template is required"}
	}

	g.logger.Info("generating email body",
		zap.String("template", template.Name),
		zap.String("parent", template.Parent),
	)

	parent, err := g.getParentTemplate(ctx, template)
	if err != nil {
		return "", err
	}

	if parent != nil && parent.EngineType != template.EngineType {
		return "", fmt.Errorf("template type %s does not match type of the parent template %s",
			template.Name, template.Parent)
	}

	engine, err := engines.New(template.EngineType, g.logger)
	if err != nil {
		return "", err
	}
	engine.AddParentTemplate(parent)

	return engine.Render(template, model)
}

func (g *BodyGenerator) getParentTemplate(ctx context.Context, template *models.Template) (*models.Template, error) {
	if template.Parent == "" {
		return nil, nil
	}
	return g.templates.GetTemplate(ctx, template.Parent)
}
