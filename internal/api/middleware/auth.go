package middleware

import (
	"context"
	"errors"
	"net/http"

	"userhub/internal/common"
	"userhub/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

// Authenticator resolves the bearer token placed in the request context
// by jwtauth.Verifier into a user identity. A request without a token
// is reported distinctly from one carrying a bad token; both are 400
// with the authenticate error type.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil || token == nil {
			switch {
			case errors.Is(err, jwtauth.ErrNoTokenFound), err == nil && token == nil:
				common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeAuthenticate, "Token is not provided.")
			case errors.Is(err, jwtauth.ErrExpired):
				common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeAuthenticate, "Token has expired.")
			default:
				common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeAuthenticate, "Token is invalid.")
			}
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, common.ErrorTypeAuthenticate, "Token is invalid.")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the authenticated user id set by
// Authenticator.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}
