// Package store provides key-value blob persistence for the planner
// collections. Each logical collection is one JSON blob under a fixed key;
// every write replaces the whole blob.
package store

// Keys of the persisted collections.
const (
	KeyCards     = "cards"
	KeyGroups    = "groups"
	KeyTemplates = "templates"
	KeySearches  = "searches"
	KeyNotes     = "notes"
)

// Keys lists every collection key in persistence order.
var Keys = []string{KeyCards, KeyGroups, KeyTemplates, KeySearches, KeyNotes}

// Store is the interface for blob persistence.
type Store interface {
	// Get returns the blob stored under key, or apperr.ErrNotFound.
	Get(key string) ([]byte, error)
	// Put replaces the blob stored under key.
	Put(key string, value []byte) error
	// Delete removes the blob stored under key, if present.
	Delete(key string) error
	// Close releases underlying resources.
	Close() error
}
