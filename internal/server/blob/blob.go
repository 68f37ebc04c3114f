// Package blob provides the content-addressed-by-random-id artifact store.
package blob

import "context"

// Store persists page artifacts under opaque keys. Keys are random
// identifiers generated by the caller; the store offers no deduplication.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
