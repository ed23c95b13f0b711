package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/notificationservice/backend/internal/services"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP status codes
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error) {
	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		h.respondError(w, http.StatusNotFound, notFoundErr.Message)
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		h.respondError(w, http.StatusConflict, conflictErr.Message)
		return
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		h.respondError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	h.logger.Error("unexpected service error", zap.Error(err))
	h.respondError(w, http.StatusInternalServerError, "internal server error")
}
