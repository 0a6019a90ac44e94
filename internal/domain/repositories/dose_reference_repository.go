package repositories

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// DoseReferenceRepository defines the interface for the standard dosing
// reference catalog
type DoseReferenceRepository interface {
	// SearchByName finds references whose medication name or active
	// ingredient matches the query, capped at cap results. Exact name
	// matches sort before prefix matches before substring matches.
	SearchByName(ctx context.Context, name string, cap int) ([]*entities.DoseReference, error)

	// FindBest returns the single best reference for a medication name
	// or active ingredient, or nil when nothing matches.
	FindBest(ctx context.Context, name string) (*entities.DoseReference, error)
}
