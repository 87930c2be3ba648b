// Package metadata is the durable key/value store behind the session: the
// bearer token and the logged-in user survive a restart through it.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Repository is a small key/value store. Get returns (nil, nil) for a
// missing key; deleting a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
