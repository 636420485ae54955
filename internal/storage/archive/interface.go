// internal/storage/archive/interface.go
package archive

import "context"

// Storage defines the interface for export artifact backends
type Storage interface {
	// Write stores data at the given path, replacing any previous content
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// Location describes where path is stored, for display and logs
	Location(path string) string
}
