package engines

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

// liquidEngine renders EngineA templates with pongo2.
// Child templates reference their parent with {% extends %} and
// {% block %} tags; whatever name the child uses, the loader always
// resolves it to the registered parent template.
type liquidEngine struct {
	parent *models.Template
	logger *zap.Logger
}

func newLiquidEngine(logger *zap.Logger) *liquidEngine {
	return &liquidEngine{logger: logger}
}

// AddParentTemplate registers the parent template used to resolve {% extends %} tags
func (e *liquidEngine) AddParentTemplate(parent *models.Template) {
	if parent == nil {
		return
	}
	e.parent = parent
	e.logger.Info("parent template added to liquid engine", zap.String("name", parent.Name))
}

// Render renders the template body with the given model
func (e *liquidEngine) Render(template *models.Template, model any) (string, error) {
	if template == nil {
		return "", fmt.Errorf("template is required")
	}
	if template.EngineType != models.EngineA {
		return "", engineMismatchError(models.EngineA)
	}

	set := pongo2.NewSet("message-templates", &parentTemplateLoader{parent: e.parent})
	tpl, err := set.FromString(template.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", template.Name, err)
	}

	ctx, err := buildContext(model)
	if err != nil {
		return "", err
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", template.Name, err)
	}

	return out, nil
}

// buildContext converts an arbitrary model into a pongo2 context.
// Maps are used directly, structs go through a JSON round trip.
func buildContext(model any) (pongo2.Context, error) {
	switch m := model.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return m, nil
	case map[string]any:
		return pongo2.Context(m), nil
	default:
		data, err := json.Marshal(model)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal template model: %w", err)
		}
		var ctx map[string]any
		if err := json.Unmarshal(data, &ctx); err != nil {
			return nil, fmt.Errorf("template model should be an object: %w", err)
		}
		return pongo2.Context(ctx), nil
	}
}

// parentTemplateLoader resolves every template reference to the
// registered parent template, regardless of the referenced name
type parentTemplateLoader struct {
	parent *models.Template
}

func (l *parentTemplateLoader) Abs(base, name string) string {
	return name
}

func (l *parentTemplateLoader) Get(path string) (io.Reader, error) {
	if l.parent == nil {
		return nil, fmt.Errorf("no parent template registered for %s", path)
	}
	return strings.NewReader(l.parent.Body), nil
}
