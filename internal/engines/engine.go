package engines

import (
	"fmt"

	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

// TemplateEngine renders a message template into its final text.
// A parent template added beforehand participates in rendering as the
// layout the child template is embedded into.
type TemplateEngine interface {
	AddParentTemplate(parent *models.Template)
	Render(template *models.Template, model any) (string, error)
}

// New creates the engine matching the given engine type
func New(engineType models.EngineType, logger *zap.Logger) (TemplateEngine, error) {
	switch engineType {
	case models.EngineA:
		return newLiquidEngine(logger), nil
	case models.EngineB:
		return newRazorEngine(logger), nil
	default:
		return nil, fmt.Errorf("unknown engine type: %s", engineType)
	}
}

// engineMismatchError reports a template handed to the wrong engine
func engineMismatchError(expected models.EngineType) error {
	return fmt.Errorf("template engine type is not %s", expected)
}
