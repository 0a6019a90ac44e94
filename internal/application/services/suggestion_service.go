package services

import (
	"context"
	"sync"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	"github.com/medscribe/clinic-backend/internal/infrastructure/observability"
	"github.com/medscribe/clinic-backend/pkg/config"
)

// SuggestionResult is the merged output of a multi-source term search.
// DegradedSources lists the sources that failed or timed out; the
// terms present are still valid.
type SuggestionResult struct {
	Terms           []*entities.Term `json:"terms"`
	DegradedSources []string         `json:"degraded_sources,omitempty"`
}

// SuggestionService aggregates term suggestions from the curated
// catalog, the dosing reference catalog and the external coding system
type SuggestionService struct {
	catalog  repositories.TermCatalogRepository
	index    repositories.TermIndexRepository
	doseRefs repositories.DoseReferenceRepository
	codes    repositories.CodeSearchRepository
	metrics  *observability.Metrics
	cfg      config.SuggestConfig
}

// NewSuggestionService creates a new suggestion service. index, doseRefs
// and codes may be nil; the service treats a nil source as absent rather
// than degraded.
func NewSuggestionService(
	catalog repositories.TermCatalogRepository,
	index repositories.TermIndexRepository,
	doseRefs repositories.DoseReferenceRepository,
	codes repositories.CodeSearchRepository,
	metrics *observability.Metrics,
	cfg config.SuggestConfig,
) *SuggestionService {
	return &SuggestionService{
		catalog:  catalog,
		index:    index,
		doseRefs: doseRefs,
		codes:    codes,
		metrics:  metrics,
		cfg:      cfg,
	}
}

type sourceResult struct {
	terms []*entities.Term
	err   error
}

// Search fans out to every available source concurrently and merges the
// results. A failing or slow source contributes nothing and is reported
// in DegradedSources; the call itself only errors on a bad argument,
// never on a source failure.
func (s *SuggestionService) Search(ctx context.Context, query string, category entities.TermCategory, doctorID string, limit int) (*SuggestionResult, error) {
	normalized := entities.NormalizeTermName(query)
	if normalized == "" {
		return &SuggestionResult{Terms: []*entities.Term{}}, nil
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	var catalogRes, doseRefRes, codeRes sourceResult
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		catalogRes = s.searchCatalog(ctx, query, category, doctorID)
	}()

	// Dosing references only describe medicines
	if s.doseRefs != nil && category == entities.CategoryMedicine {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doseRefRes = s.searchDoseRefs(ctx, query)
		}()
	}

	if s.codes != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codeRes = s.searchCodes(ctx, query, category, limit)
		}()
	}

	wg.Wait()

	result := &SuggestionResult{Terms: []*entities.Term{}}
	logger := observability.LoggerFromContext(ctx)

	record := func(source string, res sourceResult) []*entities.Term {
		if res.err == nil {
			return res.terms
		}
		result.DegradedSources = append(result.DegradedSources, source)
		observability.RecordDegradedSource(ctx, s.metrics, source)
		logger.Warn().
			Err(res.err).
			Str("source", source).
			Str("query", normalized).
			Msg("suggestion source degraded")
		return nil
	}

	// Merge precedence is fixed: catalog, then dose references, then the
	// coding system. First seen on the normalized name wins.
	seen := make(map[string]bool)
	for _, terms := range [][]*entities.Term{
		record(entities.SourceCatalog, catalogRes),
		record(entities.SourceDoseRef, doseRefRes),
		record(entities.SourceCodeSystem, codeRes),
	} {
		for _, term := range terms {
			key := term.NormalizedName
			if key == "" {
				key = entities.NormalizeTermName(term.Name)
			}
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			result.Terms = append(result.Terms, term)
		}
	}

	if len(result.Terms) > limit {
		result.Terms = result.Terms[:limit]
	}

	return result, nil
}

func (s *SuggestionService) searchCatalog(ctx context.Context, query string, category entities.TermCategory, doctorID string) sourceResult {
	sctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	terms, err := s.catalog.Search(sctx, query, category, doctorID, s.cfg.CatalogCap)
	if err == nil {
		return sourceResult{terms: terms}
	}

	// Typo-tolerant index as fallback when the primary lookup fails
	if s.index != nil {
		ictx, icancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
		defer icancel()
		if indexed, ierr := s.index.Search(ictx, query, category, s.cfg.CatalogCap); ierr == nil {
			return sourceResult{terms: indexed}
		}
	}

	return sourceResult{err: err}
}

func (s *SuggestionService) searchDoseRefs(ctx context.Context, query string) sourceResult {
	sctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	refs, err := s.doseRefs.SearchByName(sctx, query, s.cfg.DoseRefCap)
	if err != nil {
		return sourceResult{err: err}
	}

	terms := make([]*entities.Term, 0, len(refs))
	for _, ref := range refs {
		terms = append(terms, &entities.Term{
			ID:             ref.ID,
			Name:           ref.MedicationName,
			NormalizedName: entities.NormalizeTermName(ref.MedicationName),
			Category:       entities.CategoryMedicine,
			SourceSystem:   entities.SourceDoseRef,
			Composition:    ref.ActiveIngredient,
			Strength:       ref.Strength,
			DosageForm:     ref.DosageForm,
			IsActive:       true,
		})
	}
	return sourceResult{terms: terms}
}

func (s *SuggestionService) searchCodes(ctx context.Context, query string, category entities.TermCategory, cap int) sourceResult {
	sctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	terms, err := s.codes.Search(sctx, query, category, cap)
	if err != nil {
		return sourceResult{err: err}
	}
	return sourceResult{terms: terms}
}

// RecordSelection bumps the doctor's usage counter for a picked term.
// Fire and forget; selection latency must not depend on the write.
func (s *SuggestionService) RecordSelection(ctx context.Context, doctorID, termID string) {
	if doctorID == "" || termID == "" {
		return
	}

	go func() {
		bgCtx := context.Background()
		if err := s.catalog.IncrementUsage(bgCtx, doctorID, termID); err != nil {
			observability.GetLogger().Warn().
				Err(err).
				Str("doctor_id", doctorID).
				Str("term_id", termID).
				Msg("failed to record term selection")
		}
	}()
}

// SaveTerm adds a custom term to the catalog and indexes it. Saving an
// existing name is a no-op in the catalog.
func (s *SuggestionService) SaveTerm(ctx context.Context, term *entities.Term) error {
	if err := s.catalog.Create(ctx, term); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Index(ctx, term); err != nil {
			// Eventual consistency; the indexer reconciles later
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("term_id", term.ID).
				Msg("failed to index term")
		}
	}

	return nil
}

// ListFrequent returns the doctor's most used terms in a category
func (s *SuggestionService) ListFrequent(ctx context.Context, doctorID string, category entities.TermCategory, limit int) ([]*entities.Term, error) {
	return s.catalog.ListFrequent(ctx, doctorID, category, limit)
}
