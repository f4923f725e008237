package core

// resolver.go reconciles category and location names against the store.
//
// All existing references for the tenant are loaded once when the run starts
// and kept in a ReferenceCache, so resolving a name is a map lookup. A miss
// creates the entity and caches it; a later row naming the same entity, in
// any casing or spacing, gets the cached id. Rows are resolved one at a time,
// which is what makes "at most one create per name" hold without locking.

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// normalizeName folds a user-entered name to its cache key: surrounding
// whitespace trimmed, inner runs of whitespace collapsed, lowercased.
func normalizeName(name string) string {
	return strings.ToLower(displayName(name))
}

// displayName is the form a new entity is created with.
func displayName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

type refKey struct {
	kind ReferenceKind
	name string // normalized
}

// ReferenceCache maps normalized names to ids for one import run. It is not
// safe for concurrent use and must not outlive the run.
type ReferenceCache struct {
	ids    map[refKey]uuid.UUID
	failed map[refKey]error
}

// NewReferenceCache returns an empty cache.
func NewReferenceCache() *ReferenceCache {
	return &ReferenceCache{
		ids:    make(map[refKey]uuid.UUID),
		failed: make(map[refKey]error),
	}
}

// Lookup returns the id cached for name, matched after normalization.
func (c *ReferenceCache) Lookup(kind ReferenceKind, name string) (uuid.UUID, bool) {
	id, ok := c.ids[refKey{kind, normalizeName(name)}]
	return id, ok
}

// Len returns the number of cached ids of the given kind.
func (c *ReferenceCache) Len(kind ReferenceKind) int {
	n := 0
	for k := range c.ids {
		if k.kind == kind {
			n++
		}
	}
	return n
}

// seed adds existing entities. Top-level entities are added before nested
// ones, and the first entity seen for a name keeps it.
func (c *ReferenceCache) seed(kind ReferenceKind, names []string, ids []uuid.UUID, topLevel []bool) {
	for _, wantTop := range []bool{true, false} {
		for i := range names {
			if topLevel[i] != wantTop {
				continue
			}
			key := refKey{kind, normalizeName(names[i])}
			if _, exists := c.ids[key]; !exists {
				c.ids[key] = ids[i]
			}
		}
	}
}

// Resolver turns names into persisted ids, creating what is missing.
type Resolver struct {
	store    Store
	tenantID uuid.UUID
	dryRun   bool
	cache    *ReferenceCache
	stats    *ImportStats
}

// NewResolver creates a resolver for one run. Creations are counted in
// stats. With dryRun set nothing is written: a miss is given a provisional
// id and counted as if it had been created.
func NewResolver(store Store, tenantID uuid.UUID, dryRun bool, stats *ImportStats) *Resolver {
	return &Resolver{
		store:    store,
		tenantID: tenantID,
		dryRun:   dryRun,
		cache:    NewReferenceCache(),
		stats:    stats,
	}
}

// Cache exposes the run's reference cache.
func (r *Resolver) Cache() *ReferenceCache { return r.cache }

// Seed loads the tenant's existing categories and locations, one store call
// per kind.
func (r *Resolver) Seed(ctx context.Context) error {
	categories, err := r.store.ListCategories(ctx, r.tenantID)
	if err != nil {
		return &PersistenceError{Op: "list categories", Unavailable: isUnavailable(err), Err: err}
	}
	names := make([]string, len(categories))
	ids := make([]uuid.UUID, len(categories))
	top := make([]bool, len(categories))
	for i, c := range categories {
		names[i], ids[i], top[i] = c.Name, c.ID, c.ParentID == nil
	}
	r.cache.seed(KindCategory, names, ids, top)

	locations, err := r.store.ListLocations(ctx, r.tenantID)
	if err != nil {
		return &PersistenceError{Op: "list locations", Unavailable: isUnavailable(err), Err: err}
	}
	names = make([]string, len(locations))
	ids = make([]uuid.UUID, len(locations))
	top = make([]bool, len(locations))
	for i, l := range locations {
		names[i], ids[i], top[i] = l.Name, l.ID, l.ParentID == nil
	}
	r.cache.seed(KindLocation, names, ids, top)
	return nil
}

// ResolveCategory returns the id of the category called name.
func (r *Resolver) ResolveCategory(ctx context.Context, row int, name string) (uuid.UUID, error) {
	return r.resolve(ctx, KindCategory, row, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		c, err := r.store.CreateCategory(ctx, r.tenantID, name, nil)
		return c.ID, err
	})
}

// ResolveLocation returns the id of the location called name. New locations
// are created top-level and not marked as rooms.
func (r *Resolver) ResolveLocation(ctx context.Context, row int, name string) (uuid.UUID, error) {
	return r.resolve(ctx, KindLocation, row, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		l, err := r.store.CreateLocation(ctx, r.tenantID, name, nil, false)
		return l.ID, err
	})
}

type createFunc func(ctx context.Context, name string) (uuid.UUID, error)

func (r *Resolver) resolve(ctx context.Context, kind ReferenceKind, row int, name string, create createFunc) (uuid.UUID, error) {
	key := refKey{kind, normalizeName(name)}
	if key.name == "" {
		return uuid.Nil, &ReferenceCreationError{Row: row, Kind: kind, Name: name, Err: fmt.Errorf("empty %s name", kind)}
	}
	if id, ok := r.cache.Lookup(kind, name); ok {
		return id, nil
	}
	// A failed create is reported again for every row naming it, never retried.
	if err, ok := r.cache.failed[key]; ok {
		return uuid.Nil, &ReferenceCreationError{Row: row, Kind: kind, Name: name, Err: err}
	}

	var id uuid.UUID
	if r.dryRun {
		id = uuid.New()
	} else {
		created, err := create(ctx, displayName(name))
		if err != nil {
			r.cache.failed[key] = err
			return uuid.Nil, &ReferenceCreationError{Row: row, Kind: kind, Name: name, Err: err}
		}
		id = created
	}

	r.cache.ids[key] = id
	switch kind {
	case KindCategory:
		r.stats.CategoriesAdded++
	case KindLocation:
		r.stats.LocationsAdded++
	}
	return id, nil
}
