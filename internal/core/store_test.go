package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store with call counting and failure injection.
type fakeStore struct {
	mu         sync.Mutex
	categories []Category
	locations  []Location
	items      []Item

	categoryCreates int
	locationCreates int
	listCalls       int

	// failCategory and failLocation fail creates for the named entity
	// (compared case-insensitively).
	failCategory string
	failLocation string
	// failItem fails item creation for items with this name.
	failItem string
	// unavailableAfter makes every call fail with ErrStoreUnavailable once
	// that many items were created. Negative disables it.
	unavailableAfter int
	listErr          error
}

func newFakeStore() *fakeStore {
	return &fakeStore{unavailableAfter: -1}
}

var errRejected = errors.New("write rejected")

func (s *fakeStore) down() bool {
	return s.unavailableAfter >= 0 && len(s.items) >= s.unavailableAfter
}

func (s *fakeStore) ListCategories(_ context.Context, tenantID uuid.UUID) ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []Category
	for _, c := range s.categories {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateCategory(_ context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down() {
		return Category{}, ErrStoreUnavailable
	}
	s.categoryCreates++
	if s.failCategory != "" && strings.EqualFold(s.failCategory, name) {
		return Category{}, errRejected
	}
	c := Category{ID: uuid.New(), TenantID: tenantID, Name: name, ParentID: parentID, CreatedAt: time.Now()}
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *fakeStore) ListLocations(_ context.Context, tenantID uuid.UUID) ([]Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []Location
	for _, l := range s.locations {
		if l.TenantID == tenantID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateLocation(_ context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID, isRoom bool) (Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down() {
		return Location{}, ErrStoreUnavailable
	}
	s.locationCreates++
	if s.failLocation != "" && strings.EqualFold(s.failLocation, name) {
		return Location{}, errRejected
	}
	l := Location{ID: uuid.New(), TenantID: tenantID, Name: name, ParentID: parentID, IsRoom: isRoom, CreatedAt: time.Now()}
	s.locations = append(s.locations, l)
	return l, nil
}

func (s *fakeStore) CreateItem(_ context.Context, tenantID uuid.UUID, item NewItem) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down() {
		return Item{}, ErrStoreUnavailable
	}
	if s.failItem != "" && item.Name == s.failItem {
		return Item{}, errRejected
	}
	created := Item{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CategoryID: item.CategoryID,
		LocationID: item.LocationID,
		CreatedAt:  time.Now(),
		ItemFields: item.ItemFields,
	}
	s.items = append(s.items, created)
	return created, nil
}

func (s *fakeStore) ListItems(_ context.Context, tenantID uuid.UUID) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []Item
	for _, it := range s.items {
		if it.TenantID == tenantID {
			out = append(out, it)
		}
	}
	return out, nil
}

var _ Store = (*fakeStore)(nil)

// csvOf builds a CSV document from a header line and data lines.
func csvOf(header string, lines ...string) string {
	return header + "\n" + strings.Join(lines, "\n") + "\n"
}

const minimalHeader = "name,condition,category_name,location_name,is_consumable,quantity"
