package database

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/allisson/inkleaf/internal/docstore"
	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// ErrNotConnected indicates a handle was requested before Connect succeeded.
var ErrNotConnected = apperrors.Wrap(apperrors.ErrUnavailable, "database not connected")

// State is the lifecycle state of a Manager.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Connector opens a client. Managers call it at most once per successful connection.
type Connector interface {
	Connect(ctx context.Context) (docstore.Client, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (docstore.Client, error)

// Connect calls f(ctx).
func (f ConnectorFunc) Connect(ctx context.Context) (docstore.Client, error) {
	return f(ctx)
}

// ConnectObserver is told the outcome of every connection attempt a Manager makes.
// err is nil on success and ErrNotConnected when Close discarded the attempt.
type ConnectObserver interface {
	ObserveConnect(ctx context.Context, manager string, duration time.Duration, err error)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithConnectObserver reports connection attempts to o.
func WithConnectObserver(o ConnectObserver) ManagerOption {
	return func(m *Manager) {
		m.observer = o
	}
}

// Manager owns one lazily established connection and the database handle derived
// from it. Concurrent Connect calls share a single attempt; a failed attempt
// leaves the manager Disconnected so the next Connect retries.
type Manager struct {
	name      string
	dbName    string
	connector Connector
	logger    *slog.Logger
	observer  ConnectObserver

	group singleflight.Group

	mu     sync.RWMutex
	state  State
	client docstore.Client
	db     docstore.Database
	// generation is bumped by Close. An attempt started under an older
	// generation discards its client instead of publishing it.
	generation uint64
}

// NewManager creates a Manager for the named database.
func NewManager(name, dbName string, connector Connector, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		name:      name,
		dbName:    dbName,
		connector: connector,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the manager name used in logs.
func (m *Manager) Name() string {
	return m.name
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Database returns the handle established by Connect.
func (m *Manager) Database() (docstore.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != Connected {
		return nil, ErrNotConnected
	}
	return m.db, nil
}

// Client returns the client established by Connect, for access to databases
// other than the manager's own (such as the key vault).
func (m *Manager) Client() (docstore.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != Connected {
		return nil, ErrNotConnected
	}
	return m.client, nil
}

// Connect establishes the connection if needed and returns the database handle.
// The attempt itself is detached from ctx cancellation so that one caller giving
// up does not fail the others waiting on it.
func (m *Manager) Connect(ctx context.Context) (docstore.Database, error) {
	if db, err := m.Database(); err == nil {
		return db, nil
	}

	m.mu.RLock()
	gen := m.generation
	m.mu.RUnlock()

	ch := m.group.DoChan("connect-"+strconv.FormatUint(gen, 10), func() (any, error) {
		return m.connect(context.WithoutCancel(ctx), gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(docstore.Database), nil
	}
}

func (m *Manager) connect(ctx context.Context, gen uint64) (docstore.Database, error) {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return nil, ErrNotConnected
	}
	if m.state == Connected {
		db := m.db
		m.mu.Unlock()
		return db, nil
	}
	m.state = Connecting
	m.mu.Unlock()

	start := time.Now()
	client, err := m.connector.Connect(ctx)
	db, err := m.publish(ctx, gen, client, err)
	if m.observer != nil {
		m.observer.ObserveConnect(ctx, m.name, time.Since(start), err)
	}
	return db, err
}

// publish stores the outcome of an attempt started under gen.
func (m *Manager) publish(ctx context.Context, gen uint64, client docstore.Client, err error) (docstore.Database, error) {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		m.logger.Warn("database closed while connecting, discarding connection",
			slog.String("manager", m.name),
		)
		if client != nil {
			if discErr := client.Disconnect(ctx); discErr != nil {
				m.logger.Error("failed to disconnect discarded connection",
					slog.String("manager", m.name),
					slog.Any("error", discErr),
				)
			}
		}
		return nil, ErrNotConnected
	}
	defer m.mu.Unlock()

	if err != nil {
		m.state = Disconnected
		m.logger.Warn("database connection failed",
			slog.String("manager", m.name),
			slog.Any("error", err),
		)
		return nil, err
	}

	m.client = client
	m.db = client.Database(m.dbName)
	m.state = Connected
	m.logger.Info("database connected",
		slog.String("manager", m.name),
		slog.String("database", m.dbName),
	)
	return m.db, nil
}

// Close disconnects and clears the handle so the next Connect re-initializes.
// An attempt still in flight is discarded when it completes.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.db = nil
	m.state = Disconnected
	m.generation++
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
