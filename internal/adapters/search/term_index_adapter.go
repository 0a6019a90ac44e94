package search

import (
	"context"
	"fmt"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	tsclient "github.com/medscribe/clinic-backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

// TermIndexAdapter implements term search over the Typesense index
type TermIndexAdapter struct {
	client *tsclient.Client
}

// Ensure TermIndexAdapter implements TermIndexRepository
var _ repositories.TermIndexRepository = (*TermIndexAdapter)(nil)

// NewTermIndexAdapter creates a new Typesense term index adapter
func NewTermIndexAdapter(client *tsclient.Client) *TermIndexAdapter {
	return &TermIndexAdapter{client: client}
}

// Search finds terms in the index. Typesense handles typo tolerance, so
// this path catches misspellings the exact catalog query misses.
func (a *TermIndexAdapter) Search(ctx context.Context, query string, category entities.TermCategory, cap int) ([]*entities.Term, error) {
	if cap <= 0 {
		cap = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,brand,composition"),
		FilterBy: pointer.String(fmt.Sprintf("is_active:=true && category:=%s", category)),
		SortBy:   pointer.String("_text_match:desc,usage_count:desc"),
		PerPage:  pointer.Int(cap),
	}

	result, err := a.client.Client().Collection(tsclient.TermsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search term index: %w", err)
	}

	terms := []*entities.Term{}
	if result.Hits == nil {
		return terms, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		term := &entities.Term{
			Category:     category,
			SourceSystem: entities.SourceCatalog,
			IsActive:     true,
		}
		if val, ok := doc["id"].(string); ok {
			term.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			term.Name = val
		}
		if val, ok := doc["normalized_name"].(string); ok {
			term.NormalizedName = val
		}
		if val, ok := doc["brand"].(string); ok {
			term.Brand = val
		}
		if val, ok := doc["composition"].(string); ok {
			term.Composition = val
		}
		if val, ok := doc["strength"].(string); ok {
			term.Strength = val
		}
		if val, ok := doc["dosage_form"].(string); ok {
			term.DosageForm = val
		}
		if val, ok := doc["usage_count"].(float64); ok {
			term.GlobalUsage = int(val)
		}

		terms = append(terms, term)
	}

	return terms, nil
}

// Index upserts a term into the index
func (a *TermIndexAdapter) Index(ctx context.Context, term *entities.Term) error {
	document := map[string]interface{}{
		"id":              term.ID,
		"name":            term.Name,
		"normalized_name": term.NormalizedName,
		"category":        string(term.Category),
		"brand":           term.Brand,
		"composition":     term.Composition,
		"strength":        term.Strength,
		"dosage_form":     term.DosageForm,
		"usage_count":     term.GlobalUsage,
		"is_active":       term.IsActive,
	}

	_, err := a.client.Client().Collection(tsclient.TermsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index term: %w", err)
	}

	return nil
}

// Delete removes a term from the index
func (a *TermIndexAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.TermsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete term from index: %w", err)
	}
	return nil
}
