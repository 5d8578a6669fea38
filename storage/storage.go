// Package storage defines the key-value persistence used for the saved
// auth record and for session-scoped markers (role, pending checkout).
//
// Two scopes exist, mirroring the two lifetimes the application needs:
// the durable scope survives restarts, the session scope is wiped every
// time the application starts.
package storage

// KV is a flat string key-value store. Implementations must be safe for
// concurrent use.
type KV interface {
	// Get returns the value for key. The second return is false when the
	// key is absent.
	Get(key string) (string, bool, error)
	// Set writes key to value, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
