package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the key was already used for a different set of lines.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different order")

// IdempotencyRecord ties a client-supplied key to the order it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
}

// IdempotencyStore remembers placed orders by key so retries replay the original result.
type IdempotencyStore interface {
	// Get returns nil when the key is unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save stores the record. An existing key with a different hash or order returns
	// the stored record together with ErrIdempotencyConflict.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
