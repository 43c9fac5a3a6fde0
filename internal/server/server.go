// Package server is the wiring layer: it owns the store, assembles the
// service and handler chain, defines the routes and runs the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mchau/momento/internal/handler"
	"github.com/mchau/momento/internal/middleware"
	sqliteRepo "github.com/mchau/momento/internal/repository/sqlite"
	"github.com/mchau/momento/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string
}

// Server owns the router and the database handle. The handle is closed during
// shutdown, after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the store and assembles the full dependency chain:
// sqlite.DB → services → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures middleware and the API routes.
//
// GET    /api/health                   → liveness
// GET    /api/posts                    → feed (?viewer={id})
// POST   /api/posts                    → create post
// GET    /api/posts/{id}               → single post (?viewer={id})
// POST   /api/posts/{id}/like          → toggle like
// POST   /api/posts/{id}/bookmark      → toggle bookmark
// GET    /api/users/{id}               → profile
// PUT    /api/users/{id}               → update profile
// GET    /api/users/{id}/stats         → aggregated statistics
// GET    /api/users/{id}/posts         → posts authored by the user
// GET    /api/users/{id}/liked         → posts the user liked
// GET    /api/users/{id}/bookmarked    → posts the user bookmarked
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	contentService := service.NewContentService(s.db, s.logger)
	engagementService := service.NewEngagementService(s.db, s.logger)
	profileService := service.NewProfileService(s.db, s.logger)

	postHandler := handler.NewPostHandler(contentService, s.logger)
	engagementHandler := handler.NewEngagementHandler(engagementService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)

		r.Get("/posts", postHandler.HandleFeed)
		r.Post("/posts", postHandler.HandleCreate)
		r.Get("/posts/{id}", postHandler.HandleGet)
		r.Post("/posts/{id}/like", engagementHandler.HandleLike)
		r.Post("/posts/{id}/bookmark", engagementHandler.HandleBookmark)

		r.Get("/users/{id}", profileHandler.HandleGet)
		r.Put("/users/{id}", profileHandler.HandleUpdate)
		r.Get("/users/{id}/stats", profileHandler.HandleStats)
		r.Get("/users/{id}/posts", postHandler.HandleUserPosts)
		r.Get("/users/{id}/liked", postHandler.HandleLikedPosts)
		r.Get("/users/{id}/bookmarked", postHandler.HandleBookmarkedPosts)
	})
}

// Handler exposes the configured router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests and closes the store.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
