package ports

import (
	"context"

	"github.com/arvel0/canopy/pkg/domain"
)

// ResultStore defines the interface for persisting invocation results.
// Hosts use it to re-read an output without re-paying for the model call.
type ResultStore interface {
	// Save persists the result under its invocation ID.
	Save(ctx context.Context, result *domain.Result) error

	// Load retrieves the result for a given invocation ID.
	// Returns domain.ErrResultNotFound if the invocation does not exist.
	Load(ctx context.Context, invocationID string) (*domain.Result, error)

	// Delete removes the result for a given invocation ID.
	Delete(ctx context.Context, invocationID string) error

	// List returns the stored invocation IDs.
	List(ctx context.Context) ([]string, error)
}
