// Package database provides connection management for the document store.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/allisson/inkleaf/internal/docstore"
	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// Supported drivers.
const (
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// ErrMissingURI indicates the mongodb driver was selected without a connection string.
var ErrMissingURI = apperrors.Wrap(apperrors.ErrUnavailable, "database uri is not set")

// Config holds database configuration settings.
type Config struct {
	Driver           string
	URI              string
	AppName          string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
	// Memory is the shared store used by the memory driver.
	Memory *docstore.MemoryClient
}

// Connect establishes a client with the given configuration and verifies it
// with a ping.
func Connect(ctx context.Context, cfg Config) (docstore.Client, error) {
	switch cfg.Driver {
	case DriverMemory:
		if cfg.Memory == nil {
			return docstore.NewMemoryClient(), nil
		}
		return cfg.Memory, nil
	case DriverMongoDB, "":
		return connectMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func connectMongo(ctx context.Context, cfg Config) (docstore.Client, error) {
	if cfg.URI == "" {
		return nil, ErrMissingURI
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", apperrors.ErrUnavailable, err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("%w: failed to ping database: %v", apperrors.ErrUnavailable, err)
	}

	return docstore.NewMongoClient(client, cfg.OperationTimeout), nil
}
