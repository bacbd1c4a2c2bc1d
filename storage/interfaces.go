package storage

import (
	"errors"

	"property-search/models"
)

// ErrNotFound is returned by backends when a key or record does not exist.
var ErrNotFound = errors.New("storage: not found")

// KeyValueStore is a string-keyed, string-valued durable store with local
// storage semantics: it survives restarts, is never synced anywhere and
// has no expiry.
type KeyValueStore interface {
	// Get returns the stored value. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Swapper is implemented by stores that can replace a value atomically.
// An empty expected value matches an absent key.
type Swapper interface {
	CompareAndSwap(key, expected, value string) (swapped bool, err error)
}

// Catalog supplies the read-only property collection.
type Catalog interface {
	Properties() ([]*models.Property, error)
}

// PropertyWriter is the interface any catalog backend that accepts
// imported listings must satisfy.
type PropertyWriter interface {
	Write(properties []*models.Property) error
	Close() error
}
