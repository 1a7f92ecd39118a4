// Package metadata is a small key/value table in the local cache used for
// client state that is not part of the animal data set, such as the access token.
package metadata

import (
	"context"
)

// Repository reads and writes opaque values by key.
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
