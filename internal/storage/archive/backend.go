// Package archive persists analysis runs so the dashboard can show
// historical results. Backends are byte stores; the RunStore layers
// JSON encoding and run identity on top.
package archive

import "context"

// Backend defines the interface for archive storage backends.
type Backend interface {
	// Put stores data at the given path
	Put(ctx context.Context, path string, data []byte) error

	// Get retrieves data from the given path
	Get(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given path
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}
