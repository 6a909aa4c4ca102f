package storage

import "errors"

// ErrNotInitialized is returned by Load when the backing store does not exist yet.
var ErrNotInitialized = errors.New("storage not initialized, run 'strivetrack init' first")

// KV is the string key-value contract every record store satisfies.
// A missing key is reported with ok == false, never as an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	// Keys lists stored keys that start with prefix, sorted.
	Keys(prefix string) ([]string, error)
	Clear() error
}

// Provider is a KV with a lifecycle.
type Provider interface {
	KV

	Init() error
	Load() error
	Close() error

	// GetConfigPath returns a non-sensitive identifier for the store location.
	GetConfigPath() string
}
