// Package memory is a process-local core.Store used by tests, demos and the
// memory driver. Data is lost when the process exits.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/conventory/internal/core"
)

// ErrDuplicateName mirrors the unique constraint on (tenant, lower(name), parent).
var ErrDuplicateName = errors.New("duplicate key value violates unique constraint")

// ErrUnknownReference is returned when an item points at a missing category or location.
var ErrUnknownReference = errors.New("violates foreign key constraint")

type nameKey struct {
	tenant uuid.UUID
	name   string
	parent uuid.UUID // uuid.Nil for top level
}

func keyOf(tenant uuid.UUID, name string, parent *uuid.UUID) nameKey {
	k := nameKey{tenant: tenant, name: strings.ToLower(name)}
	if parent != nil {
		k.parent = *parent
	}
	return k
}

// Store keeps every tenant's records in maps guarded by one mutex.
// Listings return records in creation order.
type Store struct {
	mu sync.RWMutex

	categories    map[uuid.UUID]core.Category
	categoryOrder []uuid.UUID
	categoryNames map[nameKey]uuid.UUID

	locations     map[uuid.UUID]core.Location
	locationOrder []uuid.UUID
	locationNames map[nameKey]uuid.UUID

	items []core.Item

	now func() time.Time
}

var _ core.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		categories:    make(map[uuid.UUID]core.Category),
		categoryNames: make(map[nameKey]uuid.UUID),
		locations:     make(map[uuid.UUID]core.Location),
		locationNames: make(map[nameKey]uuid.UUID),
		now:           time.Now,
	}
}

func (s *Store) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]core.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Category{}
	for _, id := range s.categoryOrder {
		if c := s.categories[id]; c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (core.Category, error) {
	if err := ctx.Err(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != nil {
		if p, ok := s.categories[*parentID]; !ok || p.TenantID != tenantID {
			return core.Category{}, fmt.Errorf("category parent %s: %w", parentID, ErrUnknownReference)
		}
	}
	key := keyOf(tenantID, name, parentID)
	if _, exists := s.categoryNames[key]; exists {
		return core.Category{}, fmt.Errorf("category %q: %w", name, ErrDuplicateName)
	}

	c := core.Category{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: s.now(),
	}
	s.categories[c.ID] = c
	s.categoryOrder = append(s.categoryOrder, c.ID)
	s.categoryNames[key] = c.ID
	return c, nil
}

func (s *Store) ListLocations(ctx context.Context, tenantID uuid.UUID) ([]core.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Location{}
	for _, id := range s.locationOrder {
		if l := s.locations[id]; l.TenantID == tenantID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) CreateLocation(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID, isRoom bool) (core.Location, error) {
	if err := ctx.Err(); err != nil {
		return core.Location{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != nil {
		if p, ok := s.locations[*parentID]; !ok || p.TenantID != tenantID {
			return core.Location{}, fmt.Errorf("location parent %s: %w", parentID, ErrUnknownReference)
		}
	}
	key := keyOf(tenantID, name, parentID)
	if _, exists := s.locationNames[key]; exists {
		return core.Location{}, fmt.Errorf("location %q: %w", name, ErrDuplicateName)
	}

	l := core.Location{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		ParentID:  parentID,
		IsRoom:    isRoom,
		CreatedAt: s.now(),
	}
	s.locations[l.ID] = l
	s.locationOrder = append(s.locationOrder, l.ID)
	s.locationNames[key] = l.ID
	return l, nil
}

func (s *Store) CreateItem(ctx context.Context, tenantID uuid.UUID, item core.NewItem) (core.Item, error) {
	if err := ctx.Err(); err != nil {
		return core.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.categories[item.CategoryID]; !ok || c.TenantID != tenantID {
		return core.Item{}, fmt.Errorf("item category %s: %w", item.CategoryID, ErrUnknownReference)
	}
	if l, ok := s.locations[item.LocationID]; !ok || l.TenantID != tenantID {
		return core.Item{}, fmt.Errorf("item location %s: %w", item.LocationID, ErrUnknownReference)
	}

	created := core.Item{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CategoryID: item.CategoryID,
		LocationID: item.LocationID,
		CreatedAt:  s.now(),
		ItemFields: item.ItemFields,
	}
	s.items = append(s.items, created)
	return s.withNames(created), nil
}

// ListItems returns the tenant's items with category and location names
// taken from the referenced records.
func (s *Store) ListItems(ctx context.Context, tenantID uuid.UUID) ([]core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Item{}
	for _, it := range s.items {
		if it.TenantID == tenantID {
			out = append(out, s.withNames(it))
		}
	}
	return out, nil
}

func (s *Store) withNames(it core.Item) core.Item {
	it.CategoryName = s.categories[it.CategoryID].Name
	it.LocationName = s.locations[it.LocationID].Name
	return it
}
