// Package server wires the application together: database, services,
// handlers, routes, and the HTTP server lifecycle. It is the composition
// root — every dependency is assembled here and nowhere else.
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

	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/config"
	"github.com/sakif/pastebin/internal/handler"
	"github.com/sakif/pastebin/internal/middleware"
	sqliteRepo "github.com/sakif/pastebin/internal/repository/sqlite"
	"github.com/sakif/pastebin/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the whole dependency chain: database → services → handlers
// → routes. Handlers receive services, services receive repository
// interfaces, and only this package sees the concrete sqlite type.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	// Snippet creation cannot succeed while the reference catalogs are
	// empty; point the operator at the seeding command rather than letting
	// every create fail with a confusing validation error.
	languages, styles, err := db.CountCatalogs(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("checking catalogs: %w", err)
	}
	if languages == 0 || styles == 0 {
		logger.Warn("language/style catalogs are empty — run `pastebin seed` before creating snippets",
			slog.Int("languages", languages),
			slog.Int("styles", styles),
		)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	userService := service.NewUserService(s.db, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)
	catalogService := service.NewCatalogService(s.db, s.logger)
	authService := service.NewAuthService(s.db, passwords, tokens, s.logger)

	links := handler.NewLinkBuilder(s.cfg.BaseURL)
	userHandler := handler.NewUserHandler(userService, links, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, userService, links, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, links, s.logger)
	tokenHandler := handler.NewTokenHandler(authService, s.logger)
	aboutHandler := handler.NewAboutHandler(s.logger)

	requireAuth := auth.RequireUser(tokens, s.db)

	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.HandleCreate)
		r.Get("/", userHandler.HandleList)
		r.Get("/{id}", userHandler.HandleGet)
		r.Get("/{id}/snippets", snippetHandler.HandleListForUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Patch("/{id}", userHandler.HandleUpdate)
			r.Delete("/{id}", userHandler.HandleDelete)
			r.Post("/{id}/snippets", snippetHandler.HandleCreateForUser)
		})
	})

	s.router.Post("/token", tokenHandler.HandleIssue)
	s.router.Get("/languages", catalogHandler.HandleListLanguages)
	s.router.Get("/styles", catalogHandler.HandleListStyles)
	s.router.Get("/internationalization", aboutHandler.HandleAbout)

	s.router.Route("/snippets", func(r chi.Router) {
		r.Get("/", snippetHandler.HandleList)
		r.Get("/{id}", snippetHandler.HandleGet)
		r.Get("/{id}/highlight", snippetHandler.HandleHighlight)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Patch("/{id}", snippetHandler.HandleUpdate)
			r.Delete("/{id}", snippetHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
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
