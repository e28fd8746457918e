package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userhub/internal/api"
	"userhub/internal/app/service"
	"userhub/internal/common/security"
	"userhub/internal/domain/repository"
	"userhub/internal/platform/config"
	"userhub/internal/platform/database"
)

func main() {
	config.Load()
	slog.Info("configuration loaded")

	security.InitJWT()

	database.Connect()
	defer database.Close()
	slog.Info("database connected")

	if err := database.Migrate(context.Background()); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewPgUserRepository(database.DB)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	router := api.NewRouter(authService, userService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
