package storage

// Backend persists serialized values by key. Values are opaque text; the
// Store above it owns the encoding.
type Backend interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
