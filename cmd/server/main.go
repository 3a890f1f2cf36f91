package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notebook-server/internal/config"
	"notebook-server/internal/handler"
	"notebook-server/internal/logger"
	"notebook-server/internal/repository"
	"notebook-server/internal/service"
	"notebook-server/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The configured logger does not exist yet.
		bootLog, _ := logger.New("error", "text")
		bootLog.Fatal("failed to load configuration", "error", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		bootLog, _ := logger.New("error", "text")
		bootLog.Fatal("failed to build logger", "error", err)
	}

	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := repository.Open(openCtx, cfg.Database.Driver, cfg.Database.URL, cfg.Database.Name)
	cancelOpen()
	if err != nil {
		log.Fatal("failed to open store", "driver", cfg.Database.Driver, "error", err)
	}

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal("failed to configure tokens", "error", err)
	}

	authService := service.NewAuthService(store.Users, tokens)
	userService := service.NewUserService(store.Users)
	noteService := service.NewNoteService(store.Notes)

	deps := &handler.Deps{
		Log:       log,
		Validate:  handler.NewValidator(),
		DBTimeout: cfg.Database.Timeout,
	}

	router := handler.NewRouter(deps, handler.Handlers{
		Auth:   handler.NewAuthHandler(deps, authService),
		User:   handler.NewUserHandler(deps, userService),
		Note:   handler.NewNoteHandler(deps, noteService),
		Health: handler.NewHealthHandler(deps, store),
	}, tokens, handler.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting notebook server", "addr", addr, "env", cfg.Server.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	if err := store.Close(ctx); err != nil {
		log.Error("failed to close store", "error", err)
	}

	log.Info("server stopped gracefully")
}
