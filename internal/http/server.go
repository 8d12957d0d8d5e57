// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/inkleaf/internal/config"
	"github.com/allisson/inkleaf/internal/database"
	"github.com/allisson/inkleaf/internal/metrics"
	notesHTTP "github.com/allisson/inkleaf/internal/notes/http"
	searchHTTP "github.com/allisson/inkleaf/internal/search/http"
	vaultHTTP "github.com/allisson/inkleaf/internal/vault/http"
)

// StateReporter reports the lifecycle state of a database connection.
type StateReporter interface {
	Name() string
	State() database.State
}

// Server represents the HTTP server.
type Server struct {
	server    *http.Server
	router    *gin.Engine
	logger    *slog.Logger
	databases []StateReporter
}

// NewServer creates a new HTTP server. The databases are reported by the readiness endpoint.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
	databases ...StateReporter,
) *Server {
	return &Server{
		logger:    logger,
		databases: databases,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
// Vault routes are gated by RequireConnection on the encrypting connection;
// a vault that cannot connect never affects the plain note routes.
func (s *Server) SetupRouter(
	cfg *config.Config,
	vaultHandler *vaultHTTP.VaultNoteHandler,
	vaultConnector vaultHTTP.Connector,
	noteHandler *notesHTTP.NoteHandler,
	searchHandler *searchHTTP.SearchHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(BodyLimitMiddleware(int64(cfg.MaxRequestBodyBytes)))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	api := router.Group("/api")

	api.GET("/health", s.healthHandler)
	api.GET("/ready", s.readinessHandler)

	if cfg.RateLimitEnabled {
		api.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	vault := api.Group("/vault", vaultHTTP.RequireConnection(vaultConnector, s.logger))
	{
		vault.GET("", vaultHandler.ListHandler)
		vault.POST("", vaultHandler.CreateHandler)
		vault.GET("/:id", vaultHandler.GetHandler)
		vault.PUT("/:id", vaultHandler.UpdateHandler)
		vault.DELETE("/:id", vaultHandler.DeleteHandler)
		vault.GET("/:id/raw", vaultHandler.GetRawHandler)
	}

	notes := api.Group("/notes")
	{
		notes.GET("", noteHandler.ListHandler)
		notes.POST("", noteHandler.CreateHandler)
		notes.GET("/:id", noteHandler.GetHandler)
		notes.PUT("/:id", noteHandler.UpdateHandler)
		notes.DELETE("/:id", noteHandler.DeleteHandler)
	}

	search := api.Group("/search")
	{
		search.GET("", searchHandler.SearchHandler)
		search.GET("/autocomplete", searchHandler.AutocompleteHandler)
	}

	semantic := api.Group("/semantic")
	{
		semantic.GET("/search", searchHandler.SemanticSearchHandler)
		semantic.GET("/related/:noteId", searchHandler.RelatedHandler)
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil && s.router != nil {
		s.server.Handler = s.router
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness only.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readinessHandler reports each database connection. Only the first one, the
// plain connection, decides readiness: the vault connection is lazy and may be
// legitimately unconfigured.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := len(s.databases) > 0
	for i, db := range s.databases {
		state := db.State()
		components[db.Name()] = state.String()
		if i == 0 && state != database.Connected {
			ready = false
		}
	}
	if len(s.databases) == 0 {
		components["database"] = "error"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
