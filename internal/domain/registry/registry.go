// Package registry deduplicates pitcher identities by external id.
package registry

import (
	"context"
	"sync"
)

// Store is the persistence capability the registry needs: an idempotent
// lookup-or-create keyed by external id. First sighting wins for name and
// hand; repeat sightings return the existing internal id untouched.
type Store interface {
	GetOrCreatePitcher(ctx context.Context, externalID int64, name, hand string) (int64, error)
}

// Resolver maps external pitcher ids to internal ids.
type Resolver interface {
	// Resolve returns the internal id for externalID, creating the pitcher
	// record on first sighting. Safe to call once per source row.
	Resolve(ctx context.Context, externalID int64, name, hand string) (int64, error)

	// Size returns the number of identities resolved so far in this run.
	Size() int64
}

// Option applies a configuration option to the cached resolver.
type Option func(*cachedResolver)

// WithInitialCapacity sizes the cache for an expected identity count.
func WithInitialCapacity(n int) Option {
	return func(r *cachedResolver) {
		if n > 0 {
			r.initialCap = n
		}
	}
}

// cachedResolver wraps a Store with a per-run cache so that repeated
// sightings of the same external id cost one map lookup instead of a store
// round-trip. The store remains the source of truth; the cache only holds
// ids already resolved within this run.
type cachedResolver struct {
	mu         sync.RWMutex
	store      Store
	cache      map[int64]int64
	initialCap int
}

// New creates a cached Resolver backed by store.
func New(store Store, opts ...Option) Resolver {
	r := &cachedResolver{
		store:      store,
		initialCap: 256,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cache = make(map[int64]int64, r.initialCap)
	return r
}

// Resolve implements Resolver.
func (r *cachedResolver) Resolve(ctx context.Context, externalID int64, name, hand string) (int64, error) {
	r.mu.RLock()
	id, ok := r.cache[externalID]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	id, err := r.store.GetOrCreatePitcher(ctx, externalID, name, hand)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.cache[externalID] = id
	r.mu.Unlock()
	return id, nil
}

// Size implements Resolver.
func (r *cachedResolver) Size() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.cache))
}
