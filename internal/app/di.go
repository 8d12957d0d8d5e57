// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/inkleaf/internal/config"
	"github.com/allisson/inkleaf/internal/database"
	"github.com/allisson/inkleaf/internal/docstore"
	"github.com/allisson/inkleaf/internal/http"
	"github.com/allisson/inkleaf/internal/metrics"
)

// Manager names, reported by the readiness endpoint.
const (
	plainManagerName = "database"
	vaultManagerName = "vault"
)

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access. The plain database connection is
// established eagerly when first requested; the vault connection is lazy and
// only attempted by requests that need it.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	memoryStore     *docstore.MemoryClient
	plainManager    *database.Manager
	vaultManager    *database.Manager
	metricsProvider   *metrics.Provider
	businessMetrics   metrics.BusinessMetrics
	connectionMetrics *metrics.ConnectionMetrics

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Crypto, notes, vault and search components live in the di_*.go files.
	cryptoComponents
	notesComponents
	vaultComponents
	searchComponents

	mu                  sync.Mutex
	loggerInit          sync.Once
	memoryStoreInit     sync.Once
	plainManagerInit    sync.Once
	vaultManagerInit    sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	connMetricsInit     sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// once runs init under o and remembers its error under key, so later calls
// keep failing the same way.
func (c *Container) once(o *sync.Once, key string, init func() error) error {
	o.Do(func() {
		if err := init(); err != nil {
			c.mu.Lock()
			c.initErrors[key] = err
			c.mu.Unlock()
		}
	})
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[key]
}

// DatabaseConfig returns the connection settings shared by both managers. For
// the memory driver both managers see the same store.
func (c *Container) DatabaseConfig() database.Config {
	cfg := database.Config{
		Driver:           c.config.StorageDriver,
		URI:              c.config.MongoDBURI,
		AppName:          "inkleaf",
		ConnectTimeout:   c.config.DBConnectTimeout,
		OperationTimeout: c.config.DBOperationTimeout,
	}
	if cfg.Driver == database.DriverMemory {
		c.memoryStoreInit.Do(func() {
			c.memoryStore = docstore.NewMemoryClient()
		})
		cfg.Memory = c.memoryStore
	}
	return cfg
}

// PlainManager returns the connected manager for unencrypted collections.
// Failing to connect is fatal for the callers that need it.
func (c *Container) PlainManager(ctx context.Context) (*database.Manager, error) {
	err := c.once(&c.plainManagerInit, "plainManager", func() error {
		var err error
		c.plainManager, err = c.initPlainManager(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.plainManager, nil
}

// VaultManager returns the manager for the encrypting connection. It is not
// connected here: vault requests connect it on demand.
func (c *Container) VaultManager() *database.Manager {
	c.vaultManagerInit.Do(func() {
		c.vaultManager = database.NewManager(
			vaultManagerName,
			c.config.DBName,
			c.CSFLEConnector(),
			c.Logger(),
			c.managerOptions()...,
		)
		c.trackManager(c.vaultManager)
	})
	return c.vaultManager
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	err := c.once(&c.metricsProviderInit, "metricsProvider", func() error {
		if !c.config.MetricsEnabled {
			return nil
		}
		var err error
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op one when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	err := c.once(&c.businessMetricsInit, "businessMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return nil
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// ConnectionMetrics returns the database connection recorder, or nil when
// metrics are disabled.
func (c *Container) ConnectionMetrics() (*metrics.ConnectionMetrics, error) {
	err := c.once(&c.connMetricsInit, "connectionMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil || provider == nil {
			return err
		}
		c.connectionMetrics, err = metrics.NewConnectionMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create connection metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.connectionMetrics, nil
}

// managerOptions attaches the connection recorder to new managers. A metrics
// setup failure is logged and leaves the managers unobserved; the HTTP server
// reports it when it asks for the provider.
func (c *Container) managerOptions() []database.ManagerOption {
	cm, err := c.ConnectionMetrics()
	if err != nil {
		c.Logger().Warn("database connections are not instrumented", slog.Any("error", err))
		return nil
	}
	if cm == nil {
		return nil
	}
	return []database.ManagerOption{database.WithConnectObserver(cm)}
}

func (c *Container) trackManager(m *database.Manager) {
	if cm, err := c.ConnectionMetrics(); err == nil && cm != nil {
		cm.Track(m)
	}
}

// HTTPServer returns the HTTP server with its router configured.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	err := c.once(&c.httpServerInit, "httpServer", func() error {
		var err error
		c.httpServer, err = c.initHTTPServer(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	err := c.once(&c.metricsServerInit, "metricsServer", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			return nil
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown drains pending embedding work, then closes both connections and the
// metrics provider. Servers are stopped by their owner before this is called.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.embeddingWorker != nil {
		c.embeddingWorker.Wait()
	}

	var shutdownErrors []error

	if c.vaultManager != nil {
		if err := c.vaultManager.Close(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("vault database close: %w", err))
		}
	}

	if c.plainManager != nil {
		if err := c.plainManager.Close(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initPlainManager creates the plain manager and connects it.
func (c *Container) initPlainManager(ctx context.Context) (*database.Manager, error) {
	dbConfig := c.DatabaseConfig()
	manager := database.NewManager(
		plainManagerName,
		c.config.DBName,
		database.ConnectorFunc(func(ctx context.Context) (docstore.Client, error) {
			return database.Connect(ctx, dbConfig)
		}),
		c.Logger(),
		c.managerOptions()...,
	)
	c.trackManager(manager)

	if _, err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return manager, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	plain, err := c.PlainManager(ctx)
	if err != nil {
		return nil, err
	}

	vaultHandler, err := c.VaultNoteHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault note handler for http server: %w", err)
	}

	noteHandler, err := c.NoteHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get note handler for http server: %w", err)
	}

	searchHandler, err := c.SearchHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get search handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	vault := c.VaultManager()
	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, logger, plain, vault)
	server.SetupRouter(
		c.config,
		vaultHandler,
		vault,
		noteHandler,
		searchHandler,
		metricsProvider,
		c.config.MetricsNamespace,
	)

	return server, nil
}
