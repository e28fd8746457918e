package handler

import (
	"encoding/json"
	"net/http"

	"userhub/internal/app/service"
	"userhub/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeValidation, "Invalid request payload.")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithEntities(w, http.StatusOK, resp)
}
