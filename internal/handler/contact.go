package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rolodex/rolodex/internal/auth"
	"github.com/rolodex/rolodex/internal/handler/dto"
	"github.com/rolodex/rolodex/internal/service"
)

// ContactHandler handles HTTP requests for contact operations. Every route
// is mounted behind the auth middleware and acts for the authenticated user.
type ContactHandler struct {
	*Handler
	svc *service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(base *Handler, svc *service.ContactService) *ContactHandler {
	return &ContactHandler{Handler: base, svc: svc}
}

// List handles GET /contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.svc.ListContacts(r.Context(), auth.MustUserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Get handles GET /contacts/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.svc.GetContact(r.Context(), auth.MustUserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// Create handles POST /contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	userID := auth.MustUserIDFromContext(r.Context())
	contact, err := h.svc.CreateContact(r.Context(), userID, req.ToCreateInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("contact_created",
		slog.String("contact_id", contact.ID),
		slog.String("user_id", userID),
	)

	writeJSON(w, http.StatusCreated, contact)
}

// Update handles PUT /contacts/{id}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	userID := auth.MustUserIDFromContext(r.Context())
	contact, err := h.svc.UpdateContact(r.Context(), userID, chi.URLParam(r, "id"), req.ToPatch())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("contact_updated",
		slog.String("contact_id", contact.ID),
		slog.String("user_id", userID),
	)

	writeJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /contacts/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteContact(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("contact_deleted",
		slog.String("contact_id", id),
		slog.String("user_id", userID),
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Contact deleted successfully"})
}

// Stats handles GET /dashboard/stats.
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context(), auth.MustUserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
