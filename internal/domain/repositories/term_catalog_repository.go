package repositories

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// TermCatalogRepository defines the interface for the locally curated,
// doctor-aware term catalog
type TermCatalogRepository interface {
	// Search finds terms whose name, brand or composition matches the
	// query by prefix or substring, capped at cap results. When doctorID
	// is non-empty each result carries that doctor's usage count.
	Search(ctx context.Context, query string, category entities.TermCategory, doctorID string, cap int) ([]*entities.Term, error)

	// Create adds a custom term to the catalog (auto-save from the
	// prescription pad). Creating an existing name is a no-op.
	Create(ctx context.Context, term *entities.Term) error

	// IncrementUsage atomically bumps the doctor's usage counter for a
	// term. Lost increments under races are acceptable; counters only
	// bias ranking.
	IncrementUsage(ctx context.Context, doctorID, termID string) error

	// ListFrequent returns the doctor's most used terms in a category
	ListFrequent(ctx context.Context, doctorID string, category entities.TermCategory, limit int) ([]*entities.Term, error)

	// ListAll pages through every active term, for bulk reindexing
	ListAll(ctx context.Context, limit, offset int) ([]*entities.Term, error)
}

// TermIndexRepository defines the interface for the search-engine index
// over the curated catalog (e.g. Typesense)
type TermIndexRepository interface {
	// Search finds terms in the index
	Search(ctx context.Context, query string, category entities.TermCategory, cap int) ([]*entities.Term, error)

	// Index upserts a term into the index
	Index(ctx context.Context, term *entities.Term) error

	// Delete removes a term from the index
	Delete(ctx context.Context, id string) error
}
