// Package store persists household settings and devices, either in a
// SQLite database or in a JSON document file.
package store

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

// Storage backends accepted by New.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Repository loads and saves the complete household data set.
type Repository interface {
	Load() (household.AppData, error)
	Save(data household.AppData) error
	Close() error
}

// New opens the repository for the named backend at path.
func New(backend, path string) (Repository, error) {
	switch backend {
	case BackendSQLite:
		return Open(path)
	case BackendJSON:
		return NewJSONFile(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
