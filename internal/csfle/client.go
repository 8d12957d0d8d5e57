// Package csfle implements the encrypting data client: a docstore.Client
// decorator that encrypts schema fields before they leave the process and
// decrypts them on the way back.
//
// Writes to a schema collection encrypt every schema field present in the
// document or $set. Filters on deterministic fields are encrypted so equality
// matches still work; filters on random fields are rejected. Reads decrypt
// every BSON binary subtype 6 value, at any depth. Collections outside the
// schema pass through, except that reads still decrypt.
package csfle

import (
	"context"
	"sync"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	"github.com/allisson/inkleaf/internal/docstore"
)

// Client is an encrypting docstore.Client.
type Client struct {
	base      docstore.Client
	schema    cryptoDomain.EncryptionSchema
	encrypter cryptoService.FieldEncrypter
	ring      *cryptoDomain.DataKeyRing

	closeOnce sync.Once
}

// NewClient wraps base. The client takes ownership of ring and zeroes it on Disconnect.
func NewClient(
	base docstore.Client,
	schema cryptoDomain.EncryptionSchema,
	encrypter cryptoService.FieldEncrypter,
	ring *cryptoDomain.DataKeyRing,
) *Client {
	return &Client{
		base:      base,
		schema:    schema,
		encrypter: encrypter,
		ring:      ring,
	}
}

// Database returns an encrypting handle for the named database.
func (c *Client) Database(name string) docstore.Database {
	return &encryptedDatabase{client: c, inner: c.base.Database(name)}
}

// Disconnect zeroes the data keys and disconnects the underlying client.
func (c *Client) Disconnect(ctx context.Context) error {
	c.closeOnce.Do(func() {
		if c.ring != nil {
			c.ring.Close()
		}
	})
	return c.base.Disconnect(ctx)
}

type encryptedDatabase struct {
	client *Client
	inner  docstore.Database
}

func (d *encryptedDatabase) Name() string {
	return d.inner.Name()
}

func (d *encryptedDatabase) Collection(name string) docstore.Collection {
	ns := cryptoDomain.Namespace{Database: d.inner.Name(), Collection: name}
	schema, _ := d.client.schema.Collection(ns)
	return &collection{
		inner:     d.inner.Collection(name),
		schema:    schema,
		encrypter: d.client.encrypter,
	}
}
