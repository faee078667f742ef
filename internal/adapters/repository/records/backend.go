package records

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
)

// Record is one stored value
type Record struct {
	Key  string
	Data []byte
}

// Backend persists opaque records grouped by kind
type Backend interface {
	// Atomic runs fn with exclusive access. Writes made through tx are
	// committed when fn returns nil and discarded otherwise.
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is the view of a backend inside one atomic unit
type Tx interface {
	// Get returns domain.RecordNotFoundErr when the key is absent
	Get(kind, key string) ([]byte, error)
	Put(kind, key string, data []byte) error
	// Delete returns domain.RecordNotFoundErr when the key is absent
	Delete(kind, key string) error
	// Scan returns every record of kind ordered by key
	Scan(kind string) ([]Record, error)
}

// Open creates the backend selected by storage. name distinguishes independent
// stores sharing one data directory.
func Open(storage config.StorageBackend, dataDir, name string) (Backend, error) {
	switch storage {
	case config.StorageFile, "":
		return NewFileBackend(dataDir, name)
	case config.StorageSQLite:
		return NewSQLiteBackend(dataDir, name)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", storage)
	}
}
