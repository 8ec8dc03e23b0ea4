// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/auth"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/config"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/database"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/handler"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/repository"
	"github.com/libardo24/Prueba-Tecnica-Eventos/internal/service"
)

func main() {
	rollback := flag.Int("rollback", 0, "roll back this many migrations and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logging)

	if *rollback > 0 {
		if err := database.MigrateDown(cfg.Database.URL, database.DefaultMigrationsPath, *rollback); err != nil {
			logger.Fatal().Err(err).Msg("rollback failed")
		}
		logger.Info().Int("steps", *rollback).Msg("migrations rolled back")
		return
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	if err := database.MigrateUp(cfg.Database.URL, database.DefaultMigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	// Wire up layers.
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenValidity)
	authSvc := service.NewAuthService(userRepo, tokens, logger)
	eventSvc := service.NewEventService(eventRepo, regRepo, logger)
	sessionSvc := service.NewSessionService(sessionRepo, eventRepo, regRepo, logger)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)

	// Build the router.
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.RequestLogging(logger))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(handler.Authenticate(tokens))

		r.Get("/me", authHandler.Me)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.List)
			r.Post("/", eventHandler.Create)
			r.Get("/search", eventHandler.Search)
			r.Get("/mine", eventHandler.Mine)
			r.Get("/{id}", eventHandler.Get)
			r.Put("/{id}", eventHandler.Update)
			r.Delete("/{id}", eventHandler.Delete)
			r.Post("/{id}/register", eventHandler.Register)
			r.Delete("/{id}/register", eventHandler.Unregister)
			r.Get("/{id}/capacity", eventHandler.Capacity)
			r.Get("/{id}/sessions", sessionHandler.ListForEvent)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)
			r.Post("/", sessionHandler.Create)
			r.Get("/attendance", sessionHandler.Attendance)
			r.Put("/{id}", sessionHandler.Update)
			r.Delete("/{id}", sessionHandler.Delete)
			r.Get("/{id}/capacity", sessionHandler.Capacity)
			r.Post("/{id}/register", sessionHandler.RegisterAttendee)
			r.Put("/{id}/speaker", sessionHandler.AssignSpeaker)
		})
	})

	// Start server with graceful shutdown.
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
