// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rolodex/rolodex/internal/auth"
	"github.com/rolodex/rolodex/internal/handler/dto"
	"github.com/rolodex/rolodex/internal/middleware"
	"github.com/rolodex/rolodex/internal/service"
)

// Handler holds what every API handler needs to write responses.
type Handler struct {
	logger *slog.Logger
	// exposeInternalErrors adds the raw error text to 500 responses.
	exposeInternalErrors bool
}

// New creates a new Handler instance.
func New(logger *slog.Logger, exposeInternalErrors bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:               logger,
		exposeInternalErrors: exposeInternalErrors,
	}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// handleServiceError maps service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity):
		h.writeError(w, http.StatusBadRequest, "USER_EXISTS", "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, service.ErrContactNotFound):
		h.writeError(w, http.StatusNotFound, "CONTACT_NOT_FOUND", "Contact not found")
	case errors.Is(err, service.ErrValidationFailed):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		h.writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "Invalid token.")
	default:
		h.logger.Error("internal_error",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.Method+" "+r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		resp := dto.ErrorResponse{Message: "Server error", Code: "INTERNAL_ERROR"}
		if h.exposeInternalErrors {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

// decodeJSON reads a JSON request body into dst. On failure it writes the
// error response and returns false.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		h.writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
	case errors.Is(err, io.EOF):
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is required")
	default:
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
	}
	return false
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Message: message,
		Code:    code,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
