package storage

import (
	"context"
	"fmt"

	"github.com/invopost/invoice-dispatch/internal/domain"
)

// Store is the artifact storage port. The namespace is append-only: artifact
// ids embed the invoice number and generation time, so writes for distinct
// dispatch calls never collide and no locking is needed.
type Store interface {
	// Save persists artifact content under the given id.
	Save(ctx context.Context, id string, content []byte) error

	// Open returns the stored content, or domain.ErrNotFound for an
	// unknown id.
	Open(ctx context.Context, id string) ([]byte, error)

	// Exists reports whether an artifact with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// Ping verifies the store is usable; readiness probes call it.
	Ping(ctx context.Context) error
}

func notFoundErr(id string) error {
	return fmt.Errorf("%w: artifact %q", domain.ErrNotFound, id)
}
