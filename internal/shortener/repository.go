package shortener

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("short code not found")

// Reader is the read-only view of the registry handed to resolution and listing.
type Reader interface {
	// Get returns the record stored under code, or ErrNotFound.
	Get(ctx context.Context, code Code) (Record, error)
	// Snapshot returns every entry currently held, in no particular order.
	Snapshot(ctx context.Context) ([]Entry, error)
	Len(ctx context.Context) (int, error)
}

// Registry is the mapping from short codes to records.
// Only the application root holds the full interface.
type Registry interface {
	Reader
	// Insert unconditionally stores record under code. Callers check uniqueness first.
	Insert(ctx context.Context, code Code, record Record) error
	// RemoveExpired deletes code if present and is a no-op otherwise.
	RemoveExpired(ctx context.Context, code Code) error
}
