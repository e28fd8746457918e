package api

import (
	"net/http"
	"time"

	"userhub/internal/api/handler"
	appmiddleware "userhub/internal/api/middleware"
	"userhub/internal/app/service"
	"userhub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the "Authorization: Bearer T" token and puts claims in
	// context; enforcement happens in appmiddleware.Authenticator on the
	// protected group only.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// Public routes
	r.Group(func(public chi.Router) {
		authHandler.RegisterRoutes(public)
		userHandler.RegisterRoutes(public)
	})

	// Authenticated routes
	r.Group(func(protected chi.Router) {
		protected.Use(appmiddleware.Authenticator)
		userHandler.RegisterProtectedRoutes(protected)
	})

	return r
}
