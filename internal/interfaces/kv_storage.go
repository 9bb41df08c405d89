package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key is not found in the key/value store
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair represents a single key/value pair with metadata
type KeyValuePair struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KeyValueStorage defines operations for generic key/value storage.
// It backs the cross-session report cache slots and API key resolution.
type KeyValueStorage interface {
	// Get retrieves a value by key, returns ErrKeyNotFound if not found
	Get(ctx context.Context, key string) (string, error)

	// GetPair retrieves a full KeyValuePair by key, returns ErrKeyNotFound if not found
	GetPair(ctx context.Context, key string) (*KeyValuePair, error)

	// Set inserts or updates a key/value pair
	Set(ctx context.Context, key string, value string) error

	// Delete removes a key/value pair, returns ErrKeyNotFound if not found
	Delete(ctx context.Context, key string) error

	// List returns all key/value pairs ordered by updated_at DESC
	List(ctx context.Context) ([]KeyValuePair, error)
}
