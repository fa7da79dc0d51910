// Package store holds the user's curation state: zoom level, collections
// and ratings. Every mutation is persisted before it becomes visible.
package store

import "context"

// Record keys, one per store.
const (
	KeyZoom       = "zoom"
	KeyCollection = "collection"
	KeyRating     = "rating"
)

// Persister is the durable backend behind the stores.
type Persister interface {
	// Load decodes the record stored under key into v.
	// found is false when nothing was ever saved under key.
	Load(ctx context.Context, key string, v any) (found bool, err error)
	Save(ctx context.Context, key string, v any) error
}
