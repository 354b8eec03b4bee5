// Package server is the composition root: it wires the database,
// services, handlers, and middleware into a chi router and owns the
// HTTP server lifecycle.
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

	"github.com/cashflowcoders/devplanner/internal/auth"
	"github.com/cashflowcoders/devplanner/internal/handler"
	"github.com/cashflowcoders/devplanner/internal/middleware"
	sqliteRepo "github.com/cashflowcoders/devplanner/internal/repository/sqlite"
	"github.com/cashflowcoders/devplanner/internal/service"
)

// Config holds server configuration, loaded from the environment in
// main.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// GitHub sign-in is optional. When ClientID is empty the
	// /auth/github routes are not mounted.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file
// lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token and password
// services, domain services, handlers, routes. Each layer receives only
// the interfaces it needs — handlers never touch the database, services
// never touch HTTP.
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Route map:
//
//	POST /auth/register            create account + session
//	POST /auth/login               verify credentials + session
//	POST /auth/logout              clear session cookie
//	POST /auth/forgot-password     issue reset token
//	POST /auth/reset-password      consume reset token
//	POST /auth/verify-email        consume verification token
//	GET  /auth/github/login        redirect to GitHub (optional)
//	GET  /auth/github/callback     complete GitHub sign-in (optional)
//	GET  /health                   liveness probe
//
// Everything under /api requires a valid session cookie:
//
//	GET  /api/me                           current profile
//	PUT  /api/user                         update profile
//	POST /api/auth/verify-email/request    issue verification token
//	GET  /api/dashboard/stats              aggregated snapshot
//	     /api/{tasks,progress,content,clients,outreach,journal}  CRUD
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authService := service.NewAuthService(s.db, passwords, tokens, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	taskService := service.NewTaskService(s.db, s.logger)
	progressService := service.NewProgressService(s.db, s.logger)
	contentService := service.NewContentService(s.db, s.logger)
	clientService := service.NewClientService(s.db, s.logger)
	outreachService := service.NewOutreachService(s.db, s.logger)
	journalService := service.NewJournalService(s.db, s.logger)
	dashboardService := service.NewDashboardService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	progressHandler := handler.NewProgressHandler(progressService, s.logger)
	contentHandler := handler.NewContentHandler(contentService, s.logger)
	clientHandler := handler.NewClientHandler(clientService, s.logger)
	outreachHandler := handler.NewOutreachHandler(outreachService, s.logger)
	journalHandler := handler.NewJournalHandler(journalService, s.logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, s.logger)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public auth routes — no session required.
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Post("/forgot-password", authHandler.HandleForgotPassword)
		r.Post("/reset-password", authHandler.HandleResetPassword)
		r.Post("/verify-email", authHandler.HandleVerifyEmail)

		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	// Protected routes — session cookie required.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", userHandler.HandleMe)
		r.Put("/user", userHandler.HandleUpdate)
		r.Post("/auth/verify-email/request", authHandler.HandleRequestVerification)

		r.Get("/dashboard/stats", dashboardHandler.HandleStats)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.HandleCreate)
			r.Get("/", taskHandler.HandleList)
			r.Get("/{id}", taskHandler.HandleGet)
			r.Put("/{id}", taskHandler.HandleUpdate)
			r.Delete("/{id}", taskHandler.HandleDelete)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Post("/", progressHandler.HandleLog)
			r.Get("/", progressHandler.HandleList)
			r.Get("/{id}", progressHandler.HandleGet)
			r.Put("/{id}", progressHandler.HandleUpdate)
			r.Delete("/{id}", progressHandler.HandleDelete)
		})

		r.Route("/content", func(r chi.Router) {
			r.Post("/", contentHandler.HandleCreate)
			r.Get("/", contentHandler.HandleList)
			r.Get("/{id}", contentHandler.HandleGet)
			r.Put("/{id}", contentHandler.HandleUpdate)
			r.Delete("/{id}", contentHandler.HandleDelete)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", clientHandler.HandleCreate)
			r.Get("/", clientHandler.HandleList)
			r.Get("/{id}", clientHandler.HandleGet)
			r.Put("/{id}", clientHandler.HandleUpdate)
			r.Delete("/{id}", clientHandler.HandleDelete)
		})

		r.Route("/outreach", func(r chi.Router) {
			r.Post("/", outreachHandler.HandleCreate)
			r.Get("/", outreachHandler.HandleList)
			r.Get("/{id}", outreachHandler.HandleGet)
			r.Put("/{id}", outreachHandler.HandleUpdate)
			r.Delete("/{id}", outreachHandler.HandleDelete)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Post("/", journalHandler.HandleCreate)
			r.Get("/", journalHandler.HandleList)
			r.Get("/{id}", journalHandler.HandleGet)
			r.Put("/{id}", journalHandler.HandleUpdate)
			r.Delete("/{id}", journalHandler.HandleDelete)
		})
	})

	return nil
}

// Router exposes the configured router, mainly for tests that drive the
// full stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself; Close
// exists for callers that use Router() directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
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
