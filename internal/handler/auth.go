package handler

import (
	"log/slog"
	"net/http"

	"github.com/rolodex/rolodex/internal/handler/dto"
	"github.com/rolodex/rolodex/internal/service"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	*Handler
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Handler, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Handler: base, svc: svc}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_registered", slog.String("user_id", user.ID))

	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "User registered successfully"})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in", slog.String("user_id", result.UserID))

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:    result.Token,
		Username: result.Username,
	})
}
