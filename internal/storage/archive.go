package storage

import (
	"context"
)

// Archive is long-term retention for signature images. Implementations must
// tolerate being called for the same key twice; the second write overwrites.
type Archive interface {
	Put(ctx context.Context, key string, content []byte) error
}
