// Package storage defines the persistence port for diagrams and
// rendered output, with a filesystem implementation.
//
// Diagram metadata is stored as one JSON document per diagram; rendered
// bytes are written wherever the caller asks. The render orchestrator
// only depends on EnsureDir and WriteRendered; the wider surface serves
// the CLI and web layers.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/mermview/mermview/pkg/diagram"
)

// Store is the interface for diagram storage backends.
// All failures carry the STORAGE_ERROR code, except lookups of missing
// diagrams which carry NOT_FOUND.
type Store interface {
	// SaveDiagram persists a diagram's metadata.
	SaveDiagram(ctx context.Context, d *diagram.Diagram) error

	// GetDiagram retrieves a diagram by ID. A missing diagram fails
	// with a NOT_FOUND coded error.
	GetDiagram(ctx context.Context, id uuid.UUID) (*diagram.Diagram, error)

	// DeleteDiagram removes a diagram. Returns false when the diagram
	// did not exist.
	DeleteDiagram(ctx context.Context, id uuid.UUID) (bool, error)

	// WriteRendered writes rendered bytes to path and returns the
	// actual path written.
	WriteRendered(ctx context.Context, data []byte, path string) (string, error)

	// ReadFile reads a file's contents.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// FileExists reports whether a file exists.
	FileExists(ctx context.Context, path string) (bool, error)

	// EnsureDir creates a directory (and parents) if needed.
	EnsureDir(ctx context.Context, dir string) error
}
