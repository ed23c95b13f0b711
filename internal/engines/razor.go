package engines

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/notificationservice/backend/internal/models"
	"go.uber.org/zap"
)

const renderBodyToken = "@RenderBody()"

var (
	// @{Layout = "parent";} declarations carry no information at render
	// time, the parent is taken from the template record instead
	layoutDirectivePattern = regexp.MustCompile(`@\{\s*Layout\s*=\s*"[^"]*"\s*;?\s*\}`)

	// @Model.Path.To.Value references resolved against the model
	modelReferencePattern = regexp.MustCompile(`@Model((?:\.[A-Za-z_][A-Za-z0-9_]*)+)`)
)

// razorEngine renders EngineB templates.
// The child body replaces the @RenderBody() placeholder of its parent,
// then @Model references are substituted from the model.
type razorEngine struct {
	parent *models.Template
	logger *zap.Logger
}

func newRazorEngine(logger *zap.Logger) *razorEngine {
	return &razorEngine{logger: logger}
}

// AddParentTemplate registers the layout template the child body is embedded into
func (e *razorEngine) AddParentTemplate(parent *models.Template) {
	if parent == nil || parent.Name == "" {
		return
	}
	e.parent = parent
	e.logger.Info("parent template added to razor engine", zap.String("name", parent.Name))
}

// Render renders the template body with the given model
func (e *razorEngine) Render(template *models.Template, model any) (string, error) {
	if template == nil {
		return "", fmt.Errorf("template is required")
	}
	if template.EngineType != models.EngineB {
		return "", engineMismatchError(models.EngineB)
	}

	body := layoutDirectivePattern.ReplaceAllString(template.Body, "")

	if template.Parent == "" {
		// A template without a parent has no child content to splice in
		body = strings.ReplaceAll(body, renderBodyToken, "")
	} else if e.parent != nil {
		layout := layoutDirectivePattern.ReplaceAllString(e.parent.Body, "")
		body = strings.ReplaceAll(layout, renderBodyToken, body)
	}

	return interpolateModel(body, model), nil
}

// interpolateModel substitutes @Model references with values from the model.
// Unresolvable references render as empty strings.
func interpolateModel(body string, model any) string {
	return modelReferencePattern.ReplaceAllStringFunc(body, func(match string) string {
		path := strings.Split(strings.TrimPrefix(match, "@Model."), ".")

		value, ok := lookupPath(model, path)
		if !ok {
			return ""
		}
		return fmt.Sprintf("%v", value)
	})
}

// lookupPath walks the model following the reference path.
// Map keys and struct field names are matched case-insensitively.
func lookupPath(model any, path []string) (any, bool) {
	current := model
	for _, segment := range path {
		next, ok := lookupSegment(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func lookupSegment(value any, name string) (any, bool) {
	if value == nil {
		return nil, false
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		for _, key := range v.MapKeys() {
			if key.Kind() == reflect.String && strings.EqualFold(key.String(), name) {
				return v.MapIndex(key).Interface(), true
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			if strings.EqualFold(field.Name, name) || strings.EqualFold(jsonFieldName(field), name) {
				return v.Field(i).Interface(), true
			}
		}
	}

	return nil, false
}

// jsonFieldName extracts the name part of a json struct tag
func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}
