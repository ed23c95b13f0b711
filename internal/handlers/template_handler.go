package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmiddleware "github.com/notificationservice/backend/internal/auth/middleware"
	"github.com/notificationservice/backend/internal/models"
)

// TemplateService is the interface that wraps the message template business logic.
type TemplateService interface {
	// AddTemplate stores a new template. Names are canonicalized to
	// lowercase; a template may reference a parent without a parent of
	// its own and with the same engine type.
	AddTemplate(ctx context.Context, template *models.Template) error
	// UpdateTemplate replaces an existing template with the same constraints.
	UpdateTemplate(ctx context.Context, template *models.Template) error
	// DeleteTemplate removes a template unless child templates still reference it.
	DeleteTemplate(ctx context.Context, templateName string) (bool, error)
	// DeleteAllTemplates removes every stored template.
	DeleteAllTemplates(ctx context.Context) (bool, error)
	// GetTemplate retrieves a template by its name.
	GetTemplate(ctx context.Context, templateName string) (*models.Template, error)
	// GetTemplatesPaged returns a page of templates. A nil pageInfo
	// returns everything on a single page.
	GetTemplatesPaged(ctx context.Context, pageInfo *models.PageInfo) (*models.PagedTemplates, error)
}

// TemplatesHandler handles HTTP requests for message templates
type TemplatesHandler struct {
	BaseHandler
	service TemplateService
}

// NewTemplatesHandler creates a new message templates handler
func NewTemplatesHandler(svc TemplateService, logger *zap.Logger) *TemplatesHandler {
	return &TemplatesHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all message template routes
func (h *TemplatesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/message-templates", func(r chi.Router) {
		r.Post("/", h.Add)
		r.Put("/", h.Update)
		r.Get("/", h.GetPaged)
		r.Delete("/", h.DeleteAll)
		r.Get("/{templateName}", h.Get)
		r.Delete("/{templateName}", h.Delete)
	})
}

// Add handles POST /api/v1/message-templates
// @Summary Add a message template
// @Description Store a new message template; the name is canonicalized to lowercase
// @Tags message-templates
// @Accept json
// @Produce json
// @Param template body models.Template true "Template fields"
// @Success 201 {object} models.Template
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/message-templates [post]
func (h *TemplatesHandler) Add(w http.ResponseWriter, r *http.Request) {
	template, ok := h.decodeTemplate(w, r)
	if !ok {
		return
	}

	username, _ := authmiddleware.GetUsername(r.Context())
	template.CreatedBy = username
	template.UpdatedBy = username

	h.logger.Info("add template request",
		zap.String("user", username),
		zap.String("name", template.Name),
	)

	if err := h.service.AddTemplate(r.Context(), template); err != nil {
		h.respondServiceError(w, err)
		return
	}

	stored, err := h.service.GetTemplate(r.Context(), template.Name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, stored)
}

// Update handles PUT /api/v1/message-templates
// @Summary Update a message template
// @Description Replace an existing message template by name
// @Tags message-templates
// @Accept json
// @Produce json
// @Param template body models.Template true "Template fields"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/message-templates [put]
func (h *TemplatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	template, ok := h.decodeTemplate(w, r)
	if !ok {
		return
	}

	username, _ := authmiddleware.GetUsername(r.Context())
	template.UpdatedBy = username

	h.logger.Info("update template request",
		zap.String("user", username),
		zap.String("name", template.Name),
	)

	if err := h.service.UpdateTemplate(r.Context(), template); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "template successfully updated"})
}

// Get handles GET /api/v1/message-templates/{templateName}
// @Summary Get a message template
// @Description Get a message template by name
// @Tags message-templates
// @Produce json
// @Param templateName path string true "Template name"
// @Success 200 {object} models.Template
// @Failure 404 {object} map[string]string
// @Router /api/v1/message-templates/{templateName} [get]
func (h *TemplatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	templateName := chi.URLParam(r, "templateName")

	template, err := h.service.GetTemplate(r.Context(), templateName)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, template)
}

// GetPaged handles GET /api/v1/message-templates
// @Summary List message templates
// @Description Get message templates page by page; without paging parameters every template is returned on one page
// @Tags message-templates
// @Produce json
// @Param currentPage query int false "Page number, starting from 1"
// @Param pageSize query int false "Number of templates per page"
// @Success 200 {object} models.PagedTemplates
// @Failure 400 {object} map[string]string
// @Router /api/v1/message-templates [get]
func (h *TemplatesHandler) GetPaged(w http.ResponseWriter, r *http.Request) {
	pageInfo, err := parsePageInfo(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.GetTemplatesPaged(r.Context(), pageInfo)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// Delete handles DELETE /api/v1/message-templates/{templateName}
// @Summary Delete a message template
// @Description Delete a message template by name; parents with linked children are refused
// @Tags message-templates
// @Produce json
// @Param templateName path string true "Template name"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/message-templates/{templateName} [delete]
func (h *TemplatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	templateName := chi.URLParam(r, "templateName")

	deleted, err := h.service.DeleteTemplate(r.Context(), templateName)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if !deleted {
		h.respondError(w, http.StatusNotAcceptable, "delete operation doesn't complete successfully for "+templateName)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "template successfully deleted"})
}

// DeleteAll handles DELETE /api/v1/message-templates
// @Summary Delete all message templates
// @Description Delete every stored message template
// @Tags message-templates
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/message-templates [delete]
func (h *TemplatesHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteAllTemplates(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if !deleted {
		h.respondError(w, http.StatusNotAcceptable, "delete operation doesn't complete successfully")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "all templates successfully deleted"})
}

func (h *TemplatesHandler) decodeTemplate(w http.ResponseWriter, r *http.Request) (*models.Template, bool) {
	var template models.Template
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	if template.Name == "" {
		h.respondError(w, http.StatusBadRequest, "template name is required")
		return nil, false
	}
	if !template.EngineType.Valid() {
		h.respondError(w, http.StatusBadRequest, "unknown engine type")
		return nil, false
	}

	return &template, true
}

// parsePageInfo reads paging parameters from the query string.
// Absent parameters yield a nil PageInfo, which selects the default page.
func parsePageInfo(r *http.Request) (*models.PageInfo, error) {
	query := r.URL.Query()
	currentPageStr := query.Get("currentPage")
	pageSizeStr := query.Get("pageSize")

	if currentPageStr == "" && pageSizeStr == "" {
		return nil, nil
	}

	pageInfo := &models.PageInfo{}

	if currentPageStr != "" {
		currentPage, err := strconv.Atoi(currentPageStr)
		if err != nil {
			return nil, &pageParamError{param: "currentPage"}
		}
		pageInfo.CurrentPage = currentPage
	}

	if pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil {
			return nil, &pageParamError{param: "pageSize"}
		}
		pageInfo.PageSize = pageSize
	}

	return pageInfo, nil
}

type pageParamError struct {
	param string
}

func (e *pageParamError) Error() string {
	return "invalid " + e.param + " parameter"
}
