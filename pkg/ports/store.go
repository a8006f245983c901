package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
)

// ProgressStore defines the interface for persisting learner progress.
// Implementations must round-trip the three ID sets losslessly.
type ProgressStore interface {
	// Save persists the progress record for a profile.
	Save(ctx context.Context, profile string, progress *domain.Progress) error

	// Load retrieves the progress record for a profile.
	// Returns domain.ErrProgressNotFound if the profile has no record.
	Load(ctx context.Context, profile string) (*domain.Progress, error)

	// Delete removes the record for a profile. Deleting a missing profile is not an error.
	Delete(ctx context.Context, profile string) error

	// List returns the profiles with a stored record.
	List(ctx context.Context) ([]string, error)
}
