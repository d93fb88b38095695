// Package storage persists the serialized order log as a single unit under
// a fixed namespace key. Backends only move bytes; the order store owns the
// format and treats unreadable state as empty.
package storage

import (
	"context"
	"errors"
)

// Namespace is the key the order log lives under, in every backend.
const Namespace = "sabor-fitness-orders"

// ErrNotFound means no state has been saved yet.
var ErrNotFound = errors.New("no saved state")

// Store reads and writes the whole serialized order list.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
