package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	appmiddleware "userhub/internal/api/middleware"
	"userhub/internal/app/service"
	"userhub/internal/common"
	"userhub/internal/common/validation"

	"github.com/go-chi/chi/v5"
)

// profileFields is the allowed payload for PATCH /me/profile; anything
// else in the body fails validation.
var profileFields = map[string]bool{
	"name":    true,
	"country": true,
}

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.register)
}

func (h *UserHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Patch("/me/profile", h.updateProfile)
	r.Put("/me/password", h.changePassword)
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeValidation, "Invalid request payload.")
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithEntities(w, http.StatusCreated, user)
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmiddleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeAuthenticate, "Token is not provided.")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithEntities(w, http.StatusOK, user)
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmiddleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeAuthenticate, "Token is not provided.")
		return
	}

	var raw map[string]json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeValidation, "Invalid request payload.")
		return
	}

	var req service.UpdateProfileRequest
	for key, value := range raw {
		if !profileFields[key] {
			req.Unknown = append(req.Unknown, key)
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeValidation, "Invalid request payload.")
			return
		}
		switch key {
		case "name":
			req.Name = &s
		case "country":
			req.Country = &s
		}
	}
	sort.Strings(req.Unknown) // map iteration order is not stable

	user, err := h.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithEntities(w, http.StatusOK, user)
}

func (h *UserHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := appmiddleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeAuthenticate, "Token is not provided.")
		return
	}

	var req service.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeValidation, "Invalid request payload.")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, req); err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondNoContent(w)
}

// decodeBody tolerates an empty body so that requests with no payload
// fall through to field-level required validation.
func decodeBody(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// respondServiceError translates service errors into the envelope.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *validation.Errors
	switch {
	case errors.As(err, &ve):
		common.RespondWithValidationErrors(w, ve)
	case errors.Is(err, common.ErrIncorrectOldPassword):
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.ErrorTypeValidation, "Old password is incorrect.")
	case errors.Is(err, common.ErrInvalidCredentials):
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.ErrorTypeAuthenticate, "Invalid email or password.")
	case errors.Is(err, common.ErrNotFound):
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.ErrorTypeServer, "Requested resource not found.")
	default:
		common.RespondWithError(w, http.StatusInternalServerError, common.ErrorTypeServer, "Internal server error.")
	}
}
