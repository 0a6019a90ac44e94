package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/providers"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
)

// CachedDoseReferenceAdapter wraps DoseReferenceAdapter with caching.
// The reference catalog changes rarely, so lookups cache well.
type CachedDoseReferenceAdapter struct {
	adapter repositories.DoseReferenceRepository
	cache   providers.CacheProvider
}

// NewCachedDoseReferenceAdapter creates a new cached dose reference adapter
func NewCachedDoseReferenceAdapter(adapter repositories.DoseReferenceRepository, cache providers.CacheProvider) repositories.DoseReferenceRepository {
	return &CachedDoseReferenceAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	doseRefSearchTTL = 600 // 10 minutes for name searches
	doseRefBestTTL   = 900 // 15 minutes for single best lookups
)

func doseRefSearchCacheKey(name string, cap int) string {
	return fmt.Sprintf("doseref:search:%s:%d", entities.NormalizeTermName(name), cap)
}

func doseRefBestCacheKey(name string) string {
	return fmt.Sprintf("doseref:best:%s", entities.NormalizeTermName(name))
}

// SearchByName finds references with caching
func (a *CachedDoseReferenceAdapter) SearchByName(ctx context.Context, name string, cap int) ([]*entities.DoseReference, error) {
	cacheKey := doseRefSearchCacheKey(name, cap)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var refs []*entities.DoseReference
		if err := json.Unmarshal(cached, &refs); err == nil {
			return refs, nil
		}
		log.Printf("Failed to unmarshal cached dose references: %v", err)
	}

	refs, err := a.adapter.SearchByName(ctx, name, cap)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(refs); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, doseRefSearchTTL); err != nil {
				log.Printf("Failed to cache dose references: %v", err)
			}
		}
	}()

	return refs, nil
}

// FindBest returns the single best reference with caching. A miss in
// the catalog is cached too, as an empty payload, so repeated lookups
// of unknown medicines stay cheap.
func (a *CachedDoseReferenceAdapter) FindBest(ctx context.Context, name string) (*entities.DoseReference, error) {
	cacheKey := doseRefBestCacheKey(name)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		if len(cached) == 0 || string(cached) == "null" {
			return nil, nil
		}
		var ref entities.DoseReference
		if err := json.Unmarshal(cached, &ref); err == nil {
			return &ref, nil
		}
		log.Printf("Failed to unmarshal cached dose reference: %v", err)
	}

	ref, err := a.adapter.FindBest(ctx, name)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(ref); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, doseRefBestTTL); err != nil {
				log.Printf("Failed to cache dose reference: %v", err)
			}
		}
	}()

	return ref, nil
}
