// Package metadata stores small key/value records of the client in the local
// SQLite database. The session token lives here between runs.
package metadata

import (
	"context"
)

// Repository is a key/value store over the metadata table.
// Get returns common.ErrorNotFound for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
