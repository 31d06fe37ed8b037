package repositories

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the device-local persistence used by every store. Each key
// holds one serialized record snapshot.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
