// Package server provides the HTTP API for the ElectroLight storefront and admin panel.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/electrolight/internal/auth"
	"github.com/hyperjump/electrolight/internal/config"
	"github.com/hyperjump/electrolight/internal/importer"
	"github.com/hyperjump/electrolight/internal/metrics"
	"github.com/hyperjump/electrolight/internal/search"
	"github.com/hyperjump/electrolight/internal/storage"
)

// Server is the HTTP server for the ElectroLight API.
type Server struct {
	engine        *search.Engine
	storage       storage.Storage
	auth          *auth.Service
	importer      *importer.Importer
	config        *config.Config
	logger        *zap.Logger
	errorHandlers []errorHandler
	server        *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	store storage.Storage,
	authService *auth.Service,
	imp *importer.Importer,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:   engine,
		storage:  store,
		auth:     authService,
		importer: imp,
		config:   cfg,
		logger:   logger,
	}
	s.errorHandlers = defaultErrorHandlers()
	return s
}

// Router builds the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Get("/products/{id}/similar", s.handleSimilarProducts)
		r.Get("/products/{id}/accessories", s.handleProductAccessories)
		r.Get("/accessories", s.handleListAccessories)
		r.Get("/accessories/{id}", s.handleGetAccessory)
		r.Get("/categories", s.handleListCategories)
		r.Get("/categories/{slug}", s.handleGetCategory)
		r.Get("/search", s.handleSearch)
		r.Post("/contact", s.handleContact)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/me", s.handleMe)

				r.Post("/products", s.handleCreateProduct)
				r.Put("/products/{id}", s.handleUpdateProduct)
				r.Delete("/products/{id}", s.handleDeleteProduct)

				r.Post("/accessories", s.handleCreateAccessory)
				r.Put("/accessories/{id}", s.handleUpdateAccessory)
				r.Delete("/accessories/{id}", s.handleDeleteAccessory)

				r.Post("/categories", s.handleCreateCategory)
				r.Put("/categories/{slug}", s.handleUpdateCategory)
				r.Delete("/categories/{slug}", s.handleDeleteCategory)

				r.Post("/import", s.handleImport)
				r.Get("/contact", s.handleListContact)
				r.Get("/status", s.handleStatus)
			})
		})
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: s.config.Server.RequestTimeout,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
