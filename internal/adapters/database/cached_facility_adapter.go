package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/providers"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
)

// CachedFacilityAdapter wraps FacilityAdapter with caching. Facility records
// change rarely, so stale reads within the TTL are acceptable.
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider
}

// NewCachedFacilityAdapter creates a new cached facility adapter
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider) repositories.FacilityRepository {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	facilityByIDTTL   = 300 // 5 minutes for single facility
	facilitiesListTTL = 180 // 3 minutes for the list
)

const facilitiesListCacheKey = "facilities:list"

func facilityCacheKey(id string) string {
	return fmt.Sprintf("facility:%s", id)
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	cacheKey := facilityCacheKey(id)

	// Try to get from cache first
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facility entities.Facility
		if err := json.Unmarshal(cached, &facility); err == nil {
			return &facility, nil
		}
		// If unmarshal fails, continue to fetch from DB
		log.Printf("Failed to unmarshal cached facility %s: %v", id, err)
	}

	// Cache miss - fetch from database
	facility, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facility); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilityByIDTTL); err != nil {
				log.Printf("Failed to cache facility %s: %v", id, err)
			}
		}
	}()

	return facility, nil
}

// List retrieves all facilities with caching
func (a *CachedFacilityAdapter) List(ctx context.Context) ([]*entities.Facility, error) {
	// Try to get from cache first
	if cached, err := a.cache.Get(ctx, facilitiesListCacheKey); err == nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(cached, &facilities); err == nil {
			return facilities, nil
		}
		log.Printf("Failed to unmarshal cached facilities list: %v", err)
	}

	// Cache miss - fetch from database
	facilities, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facilities); err == nil {
			if err := a.cache.Set(bgCtx, facilitiesListCacheKey, data, facilitiesListTTL); err != nil {
				log.Printf("Failed to cache facilities list: %v", err)
			}
		}
	}()

	return facilities, nil
}

// Create creates a facility and invalidates the list cache
func (a *CachedFacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Create(ctx, facility); err != nil {
		return err
	}

	// Invalidate the list cache asynchronously
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, facilitiesListCacheKey); err != nil {
			log.Printf("Failed to invalidate facilities list cache: %v", err)
		}
	}()

	return nil
}
