package terminology

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	tclient "github.com/medscribe/clinic-backend/internal/infrastructure/clients/terminology"
	apperrors "github.com/medscribe/clinic-backend/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// SnomedAdapter implements CodeSearchRepository over the external
// terminology service, guarded by a circuit breaker. When the circuit
// is open the adapter fails fast and the aggregator marks the source
// degraded instead of waiting out repeated timeouts.
type SnomedAdapter struct {
	client  tclient.Client
	breaker *gobreaker.CircuitBreaker
}

// Ensure SnomedAdapter implements CodeSearchRepository
var _ repositories.CodeSearchRepository = (*SnomedAdapter)(nil)

// NewSnomedAdapter creates a new terminology search adapter
func NewSnomedAdapter(client tclient.Client) *SnomedAdapter {
	settings := gobreaker.Settings{
		Name:        "terminology",
		MaxRequests: 3,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &SnomedAdapter{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// semanticTagFor maps a term category onto the coding system's
// semantic tag filter
func semanticTagFor(category entities.TermCategory) string {
	switch category {
	case entities.CategoryMedicine:
		return "product"
	case entities.CategoryDiagnosis:
		return "disorder"
	case entities.CategorySymptom:
		return "finding"
	default:
		return ""
	}
}

// Search runs a text search against the coding system
func (a *SnomedAdapter) Search(ctx context.Context, query string, category entities.TermCategory, cap int) ([]*entities.Term, error) {
	if cap <= 0 {
		cap = 20
	}

	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.client.SearchConcepts(ctx, tclient.SearchRequest{
			Query:       query,
			SemanticTag: semanticTagFor(category),
			Limit:       cap,
		})
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, apperrors.NewUnavailableError("terminology service circuit open", err)
		}
		return nil, apperrors.NewUnavailableError("terminology service search failed", err)
	}

	resp := result.(*tclient.SearchResponse)
	terms := make([]*entities.Term, 0, len(resp.Items))
	for _, concept := range resp.Items {
		terms = append(terms, &entities.Term{
			ID:             concept.ConceptID,
			Name:           concept.Term,
			NormalizedName: entities.NormalizeTermName(concept.Term),
			Category:       category,
			SourceSystem:   entities.SourceCodeSystem,
			ExternalCode:   concept.ConceptID,
			Brand:          concept.BrandName,
			Composition:    concept.SubstanceName,
			Strength:       concept.Strength,
			DosageForm:     concept.DoseForm,
			IsActive:       true,
		})
	}

	return terms, nil
}
