package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/inkleaf/internal/metrics"
)

// Scrapes are small and frequent; a scraper that stalls longer than this is
// dropped rather than holding a connection.
const (
	metricsReadTimeout  = 5 * time.Second
	metricsWriteTimeout = 10 * time.Second
	metricsIdleTimeout  = 60 * time.Second
)

// MetricsServer serves Prometheus scrapes on a port separate from the API, so
// the rate limiter and CORS rules never apply to it.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer serves provider at /metrics and a liveness check at
// /healthz. Scrape requests are logged at debug level only.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if metricsProvider != nil {
		handler := metricsProvider.Handler()
		router.GET("/metrics", func(c *gin.Context) {
			logger.Debug("metrics scrape", slog.String("remote_addr", c.ClientIP()))
			handler.ServeHTTP(c.Writer, c.Request)
		})
	}

	return &MetricsServer{
		server: &http.Server{
			Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:      router,
			ReadTimeout:  metricsReadTimeout,
			WriteTimeout: metricsWriteTimeout,
			IdleTimeout:  metricsIdleTimeout,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Addr returns the listen address.
func (s *MetricsServer) Addr() string {
	return s.server.Addr
}

// Start blocks serving scrapes until Shutdown.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the metrics HTTP server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}
