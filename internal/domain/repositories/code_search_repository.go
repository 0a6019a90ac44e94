package repositories

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// CodeSearchRepository defines the interface to an external standardized
// coding system (SNOMED/ICD-style terminology service). Calls may be
// slow or fail entirely; the suggestion aggregator degrades gracefully.
type CodeSearchRepository interface {
	// Search runs a paginated text search against the coding system
	Search(ctx context.Context, query string, category entities.TermCategory, cap int) ([]*entities.Term, error)
}
