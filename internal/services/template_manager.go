package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

const enginesShouldMatchMessage = "the engine types of parent and child templates should match"

// TemplateRepository defines the persistence operations the manager needs
type TemplateRepository interface {
	Get(ctx context.Context, name string) (*models.Template, error)
	GetAll(ctx context.Context) ([]models.Template, error)
	GetChildren(ctx context.Context, parent string) ([]models.Template, error)
	Add(ctx context.Context, template *models.Template) error
	Update(ctx context.Context, template *models.Template) (int64, error)
	Delete(ctx context.Context, name string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// TemplateManager contains the business logic applied to message templates
// before they reach the repository: name canonicalization, uniqueness,
// single-level inheritance and engine type consistency.
type TemplateManager struct {
	repository TemplateRepository
	logger     *zap.Logger
}

// NewTemplateManager creates a new template manager
func NewTemplateManager(repository TemplateRepository, logger *zap.Logger) *TemplateManager {
	return &TemplateManager{
		repository: repository,
		logger:     logger,
	}
}

// AddTemplate stores a new template after verifying name uniqueness and parent constraints
func (m *TemplateManager) AddTemplate(ctx context.Context, template *models.Template) error {
	if template == nil {
		return &ValidationError{Message: "template is required"}
	}
	template.Name = strings.ToLower(template.Name)

	existing, err := m.repository.Get(ctx, template.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		errorMessage := fmt.Sprintf("template with the given name %s already exists", template.Name)
		m.logger.Warn(errorMessage)
		return &ConflictError{Message: errorMessage}
	}

	if err := m.verifyParent(ctx, template); err != nil {
		return err
	}

	now := time.Now().UTC()
	template.CreatedDate = now
	template.UpdatedDate = now

	return m.repository.Add(ctx, template)
}

// UpdateTemplate replaces an existing template after re-verifying parent
// constraints and engine type consistency with any child templates
func (m *TemplateManager) UpdateTemplate(ctx context.Context, template *models.Template) error {
	if template == nil {
		return &ValidationError{Message: "template is required"}
	}
	template.Name = strings.ToLower(template.Name)

	existing, err := m.verifyExistence(ctx, template.Name)
	if err != nil {
		return err
	}
	if err := m.verifyParent(ctx, template); err != nil {
		return err
	}
	if err := m.verifyChildEngines(ctx, template); err != nil {
		return err
	}

	// Creation audit fields survive updates
	template.CreatedBy = existing.CreatedBy
	template.CreatedDate = existing.CreatedDate
	template.UpdatedDate = time.Now().UTC()

	_, err = m.repository.Update(ctx, template)
	return err
}

// DeleteTemplate removes a template by name.
// Templates that still have linked children cannot be deleted.
func (m *TemplateManager) DeleteTemplate(ctx context.Context, templateName string) (bool, error) {
	if templateName == "" {
		return false, &ValidationError{Message: "template name is required"}
	}
	templateName = strings.ToLower(templateName)

	if _, err := m.verifyExistence(ctx, templateName); err != nil {
		return false, err
	}
	if err := m.verifyChildExistence(ctx, templateName); err != nil {
		return false, err
	}

	deleted, err := m.repository.Delete(ctx, templateName)
	if err != nil {
		return false, err
	}

	return deleted == 1, nil
}

// DeleteAllTemplates removes every stored template
func (m *TemplateManager) DeleteAllTemplates(ctx context.Context) (bool, error) {
	if _, err := m.repository.DeleteAll(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// GetTemplate retrieves a template by name
func (m *TemplateManager) GetTemplate(ctx context.Context, templateName string) (*models.Template, error) {
	if templateName == "" {
		return nil, &ValidationError{Message: "template name is required"}
	}
	return m.verifyExistence(ctx, strings.ToLower(templateName))
}

// GetTemplatesPaged returns a page of templates.
// A nil or zero pageInfo returns a single page containing all templates.
func (m *TemplateManager) GetTemplatesPaged(ctx context.Context, pageInfo *models.PageInfo) (*models.PagedTemplates, error) {
	templates, err := m.repository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	total := len(templates)

	if total == 0 || pageInfo == nil || (pageInfo.PageSize == 0 && pageInfo.CurrentPage == 0) {
		m.logger.Info("returning default page")

		pageSize := total
		if pageSize == 0 {
			pageSize = 10
		}

		return &models.PagedTemplates{
			TotalTemplates: total,
			PageSize:       pageSize,
			CurrentPage:    1,
			PagesCount:     1,
			Templates:      templates,
		}, nil
	}

	if pageInfo.PageSize <= 0 {
		return nil, &ValidationError{Message: "page size should be greater than 0"}
	}
	if pageInfo.CurrentPage <= 0 {
		return nil, &ValidationError{Message: "current page should be greater than 0"}
	}

	pagesCount := (total + pageInfo.PageSize - 1) / pageInfo.PageSize
	if pageInfo.CurrentPage > pagesCount {
		return nil, &ValidationError{Message: fmt.Sprintf("current page shouldn't be greater than total %d", pagesCount)}
	}

	skip := (pageInfo.CurrentPage - 1) * pageInfo.PageSize
	end := min(skip+pageInfo.PageSize, total)

	return &models.PagedTemplates{
		TotalTemplates: total,
		PageSize:       pageInfo.PageSize,
		CurrentPage:    pageInfo.CurrentPage,
		PagesCount:     pagesCount,
		Templates:      templates[skip:end],
	}, nil
}

// verifyExistence loads a template and fails with a NotFoundError when it is missing
func (m *TemplateManager) verifyExistence(ctx context.Context, templateName string) (*models.Template, error) {
	m.logger.Info("verifying existence of template", zap.String("name", templateName))

	template, err := m.repository.Get(ctx, templateName)
	if err != nil {
		return nil, err
	}
	if template == nil {
		errorMessage := fmt.Sprintf("couldn't find template named %s", templateName)
		m.logger.Error(errorMessage)
		return nil, &NotFoundError{Message: errorMessage}
	}

	return template, nil
}

// verifyParent checks that the declared parent exists, has no parent of its own
// and uses the same rendering engine as the child
func (m *TemplateManager) verifyParent(ctx context.Context, template *models.Template) error {
	m.logger.Info("verifying parent template", zap.String("name", template.Name))

	if template.Parent == "" {
		return nil
	}

	template.Parent = strings.ToLower(template.Parent)
	parent, err := m.repository.Get(ctx, template.Parent)
	if err != nil {
		return err
	}

	if parent == nil {
		errorMessage := fmt.Sprintf("couldn't find parent template named %s", template.Parent)
		m.logger.Error(errorMessage)
		return &NotFoundError{Message: errorMessage}
	}

	if parent.Parent != "" {
		errorMessage := fmt.Sprintf("parent template %s shouldn't have own parents", template.Parent)
		m.logger.Error(errorMessage)
		return &ValidationError{Message: errorMessage}
	}

	if template.EngineType != parent.EngineType {
		m.logger.Error(enginesShouldMatchMessage)
		return &ValidationError{Message: enginesShouldMatchMessage}
	}

	return nil
}

// verifyChildEngines checks that all children of an updated parent template
// still use the same rendering engine
func (m *TemplateManager) verifyChildEngines(ctx context.Context, template *models.Template) error {
	m.logger.Info("verifying child template engine types", zap.String("name", template.Name))

	// A template with a parent cannot have children of its own
	if template.Parent != "" {
		return nil
	}

	children, err := m.repository.GetChildren(ctx, template.Name)
	if err != nil {
		return err
	}

	for _, child := range children {
		if child.EngineType != template.EngineType {
			m.logger.Error(enginesShouldMatchMessage)
			return &ValidationError{Message: enginesShouldMatchMessage}
		}
	}

	return nil
}

// verifyChildExistence fails when the template still has linked child templates
func (m *TemplateManager) verifyChildExistence(ctx context.Context, templateName string) error {
	children, err := m.repository.GetChildren(ctx, templateName)
	if err != nil {
		return err
	}

	if len(children) > 0 {
		errorMessage := "can't delete parent template with linked child templates"
		m.logger.Error(errorMessage)
		return &ValidationError{Message: errorMessage}
	}

	return nil
}
