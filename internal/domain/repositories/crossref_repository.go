package repositories

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// CrossReferenceRepository defines the interface for symptom/diagnosis
// cross-reference mappings
type CrossReferenceRepository interface {
	// FindBySourceTerms returns every mapping whose source term matches
	// any of the given terms, batched in one lookup. Matching is on the
	// normalized source term.
	FindBySourceTerms(ctx context.Context, terms []string) ([]*entities.CrossReferenceMapping, error)
}
