package session

import (
	"context"
)

// Repository is a flat key/value area for the persisted session. The
// session is always read whole with List.
type Repository interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
