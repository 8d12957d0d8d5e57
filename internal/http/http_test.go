package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/inkleaf/internal/config"
	"github.com/allisson/inkleaf/internal/database"
	"github.com/allisson/inkleaf/internal/docstore"
	"github.com/allisson/inkleaf/internal/embedding"
	"github.com/allisson/inkleaf/internal/metrics"
	notesHTTP "github.com/allisson/inkleaf/internal/notes/http"
	notesRepository "github.com/allisson/inkleaf/internal/notes/repository"
	notesUseCase "github.com/allisson/inkleaf/internal/notes/usecase"
	searchHTTP "github.com/allisson/inkleaf/internal/search/http"
	searchRepository "github.com/allisson/inkleaf/internal/search/repository"
	searchUseCase "github.com/allisson/inkleaf/internal/search/usecase"
	"github.com/allisson/inkleaf/internal/testutil"
	vaultHTTP "github.com/allisson/inkleaf/internal/vault/http"
	vaultRepository "github.com/allisson/inkleaf/internal/vault/repository"
	vaultUseCase "github.com/allisson/inkleaf/internal/vault/usecase"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeState struct {
	name  string
	state database.State
}

func (f fakeState) Name() string          { return f.name }
func (f fakeState) State() database.State { return f.state }

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:                "info",
		RateLimitEnabled:        false,
		RateLimitRequestsPerSec: 10,
		RateLimitBurst:          20,
	}
}

// newTestServer wires every handler over one in-memory store, the same way the
// application container does.
func newTestServer(t *testing.T, cfg *config.Config, configured bool) *Server {
	t.Helper()

	logger := discardLogger()
	store := testutil.SetupMemoryStore(t)

	var stack *testutil.VaultStack
	if configured {
		stack = testutil.SetupVaultStack(t, store)
	} else {
		stack = testutil.SetupUnconfiguredVaultStack(t, store)
	}

	vaultRepo := vaultRepository.NewVaultNoteRepository(stack.Encrypted, stack.Plain)
	vaultHandler := vaultHTTP.NewVaultNoteHandler(vaultUseCase.NewVaultNoteUseCase(vaultRepo), logger)

	embedder := embedding.NewClient(embedding.Config{})
	noteRepo := notesRepository.NewNoteRepository(stack.Plain)
	worker := notesUseCase.NewEmbeddingWorker(embedder, noteRepo, logger)
	t.Cleanup(worker.Wait)
	noteHandler := notesHTTP.NewNoteHandler(notesUseCase.NewNoteUseCase(noteRepo, worker), logger)

	searchRepo := searchRepository.NewSearchRepository(stack.Plain)
	searchHandler := searchHTTP.NewSearchHandler(
		searchUseCase.NewSearchUseCase(searchRepo, noteRepo, embedder),
		logger,
	)

	server := NewServer("localhost", 0, logger, stack.Plain, stack.Encrypted)
	server.SetupRouter(cfg, vaultHandler, stack.Encrypted, noteHandler, searchHandler, nil, "inkleaf")
	return server
}

func serve(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	server := NewServer("localhost", 8080, discardLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		databases  []StateReporter
		wantStatus int
		wantBody   string
	}{
		{
			name:       "NotReady_NoDatabases",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"not_ready","components":{"database":"error"}}`,
		},
		{
			name: "NotReady_PlainDisconnected",
			databases: []StateReporter{
				fakeState{name: "plain", state: database.Disconnected},
				fakeState{name: "vault", state: database.Connected},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"not_ready","components":{"plain":"disconnected","vault":"connected"}}`,
		},
		{
			name: "Ready_VaultStillLazy",
			databases: []StateReporter{
				fakeState{name: "plain", state: database.Connected},
				fakeState{name: "vault", state: database.Disconnected},
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready","components":{"plain":"connected","vault":"disconnected"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer("localhost", 8080, discardLogger(), tt.databases...)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/ready", nil)

			server.readinessHandler(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/api/notes/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	w := serve(t, router, http.MethodGet, "/api/notes/abc", "")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/api/notes/abc", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, w.Header().Get("X-Request-Id"), entry["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := serve(t, router, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_SetupRouter(t *testing.T) {
	t.Run("Success_HealthAndRequestID", func(t *testing.T) {
		server := newTestServer(t, testConfig(), true)

		w := serve(t, server.GetHandler(), http.MethodGet, "/api/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
		_, err := uuid.Parse(w.Header().Get("X-Request-Id"))
		assert.NoError(t, err)
	})

	t.Run("Success_NotesAndVaultRoutes", func(t *testing.T) {
		server := newTestServer(t, testConfig(), true)
		handler := server.GetHandler()

		w := serve(t, handler, http.MethodPost, "/api/notes", `{"title":"Plain","markdown":"hello"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = serve(t, handler, http.MethodPost, "/api/vault", `{"title":"Secret","markdown":"hunter2"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = serve(t, handler, http.MethodGet, "/api/notes", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Plain"`)
		assert.NotContains(t, w.Body.String(), "Secret")

		w = serve(t, handler, http.MethodGet, "/api/vault", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"markdown":"hunter2"`)
	})

	t.Run("Success_UnconfiguredVaultLeavesNotesAvailable", func(t *testing.T) {
		server := newTestServer(t, testConfig(), false)
		handler := server.GetHandler()

		w := serve(t, handler, http.MethodGet, "/api/vault", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "vault_unavailable")

		w = serve(t, handler, http.MethodGet, "/api/notes", "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = serve(t, handler, http.MethodGet, "/api/ready", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_SearchRoutesRegistered", func(t *testing.T) {
		server := newTestServer(t, testConfig(), true)
		handler := server.GetHandler()

		w := serve(t, handler, http.MethodGet, "/api/search", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = serve(t, handler, http.MethodGet, "/api/search/autocomplete", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = serve(t, handler, http.MethodGet, "/api/semantic/search", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = serve(t, handler, http.MethodGet, "/api/semantic/related/not-an-id", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Success_NoMetricsEndpoint", func(t *testing.T) {
		server := newTestServer(t, testConfig(), true)

		w := serve(t, server.GetHandler(), http.MethodGet, "/metrics", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_BodyTooLarge", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxRequestBodyBytes = 64
		server := newTestServer(t, cfg, true)
		handler := server.GetHandler()

		w := serve(t, handler, http.MethodPost, "/api/notes", `{"title":"Small"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		large := `{"title":"Large","markdown":"` + strings.Repeat("x", 128) + `"}`
		w = serve(t, handler, http.MethodPost, "/api/notes", large)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "request_too_large")

		w = serve(t, handler, http.MethodPost, "/api/vault", large)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("Error_RateLimited", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimitEnabled = true
		cfg.RateLimitRequestsPerSec = 0.1
		cfg.RateLimitBurst = 1
		server := newTestServer(t, cfg, true)
		handler := server.GetHandler()

		assert.Equal(t, http.StatusOK, serve(t, handler, http.MethodGet, "/api/notes", "").Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(t, handler, http.MethodGet, "/api/notes", "").Code)
		assert.Equal(t, http.StatusOK, serve(t, handler, http.MethodGet, "/api/health", "").Code)
	})
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := NewServer("127.0.0.1", 0, discardLogger())
	server.router = gin.New()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	ctx := context.Background()
	provider, err := metrics.NewProvider("inkleaf_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	connMetrics, err := metrics.NewConnectionMetrics(provider.MeterProvider(), "inkleaf_test")
	require.NoError(t, err)
	vault := database.NewManager("vault", testutil.TestDatabase, database.ConnectorFunc(
		func(context.Context) (docstore.Client, error) {
			return nil, errors.New("key vault unreachable")
		},
	), discardLogger(), database.WithConnectObserver(connMetrics))
	connMetrics.Track(vault)

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)
	assert.Equal(t, "localhost:8081", metricsServer.Addr())

	t.Run("Success_Healthz", func(t *testing.T) {
		w := serve(t, metricsServer.GetHandler(), http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("Success_ScrapeVaultConnectionOutcome", func(t *testing.T) {
		_, err := vault.Connect(ctx)
		require.Error(t, err)

		w := serve(t, metricsServer.GetHandler(), http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Regexp(t, `inkleaf_test_database_connect_attempts_total\{[^}]*manager="vault"[^}]*status="error"[^}]*\} 1`, w.Body.String())
		assert.Regexp(t, `inkleaf_test_database_connection_state\{[^}]*manager="vault"[^}]*state="disconnected"[^}]*\} 1`, w.Body.String())
	})

	t.Run("Error_NoProvider", func(t *testing.T) {
		bare := NewMetricsServer("", 0, discardLogger(), nil)
		assert.Equal(t, ":0", bare.Addr())
		assert.Equal(t, http.StatusNotFound, serve(t, bare.GetHandler(), http.MethodGet, "/metrics", "").Code)
		assert.Equal(t, http.StatusOK, serve(t, bare.GetHandler(), http.MethodGet, "/healthz", "").Code)
	})
}
