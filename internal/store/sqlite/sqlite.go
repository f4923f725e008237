// Package sqlite implements core.Store on a single SQLite file using the
// pure Go modernc driver, for single-node deployments and the CLI.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/JonMunkholm/conventory/internal/core"
)

//go:embed schema.sql
var schema string

const timeLayout = time.RFC3339Nano

// Store is a core.Store over one SQLite database.
type Store struct {
	db *sql.DB
}

var _ core.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the
// schema. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "conventory.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", classify(err))
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, parent_id, created_at
		FROM categories WHERE tenant_id = ? ORDER BY rowid`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	out := []core.Category{}
	for rows.Next() {
		var (
			c       core.Category
			created string
		)
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.ParentID, &created); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("category %s created_at: %w", c.ID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err))
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (core.Category, error) {
	c := core.Category{ID: uuid.New(), TenantID: tenantID, Name: name, ParentID: parentID, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, tenant_id, name, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, tenantID, name, parentID, c.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", classify(err))
	}
	return c, nil
}

func (s *Store) ListLocations(ctx context.Context, tenantID uuid.UUID) ([]core.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, parent_id, is_room, created_at
		FROM locations WHERE tenant_id = ? ORDER BY rowid`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	out := []core.Location{}
	for rows.Next() {
		var (
			l       core.Location
			created string
		)
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.ParentID, &l.IsRoom, &created); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		if l.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("location %s created_at: %w", l.ID, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: %w", classify(err))
	}
	return out, nil
}

func (s *Store) CreateLocation(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID, isRoom bool) (core.Location, error) {
	l := core.Location{ID: uuid.New(), TenantID: tenantID, Name: name, ParentID: parentID, IsRoom: isRoom, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, tenant_id, name, parent_id, is_room, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, tenantID, name, parentID, isRoom, l.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Location{}, fmt.Errorf("insert location: %w", classify(err))
	}
	return l, nil
}

func (s *Store) CreateItem(ctx context.Context, tenantID uuid.UUID, item core.NewItem) (core.Item, error) {
	created := core.Item{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CategoryID: item.CategoryID,
		LocationID: item.LocationID,
		CreatedAt:  time.Now().UTC(),
		ItemFields: item.ItemFields,
	}
	f := item.ItemFields
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (
			id, tenant_id, category_id, location_id, name, description, serial_number,
			barcode, condition, is_consumable, quantity, minimum_quantity,
			purchase_date, purchase_price, warranty_expiration, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, tenantID, item.CategoryID, item.LocationID,
		f.Name, f.Description, f.SerialNumber, f.Barcode, string(f.Condition), f.IsConsumable,
		f.Quantity, f.MinimumQuantity, dateArg(f.PurchaseDate), f.PurchasePrice,
		dateArg(f.WarrantyExpiration), f.Notes, created.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return core.Item{}, fmt.Errorf("insert item: %w", classify(err))
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT (SELECT name FROM categories WHERE id = ?), (SELECT name FROM locations WHERE id = ?)`,
		item.CategoryID, item.LocationID,
	).Scan(&created.CategoryName, &created.LocationName)
	if err != nil {
		return core.Item{}, fmt.Errorf("load item references: %w", classify(err))
	}
	return created, nil
}

func (s *Store) ListItems(ctx context.Context, tenantID uuid.UUID) ([]core.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.tenant_id, i.category_id, i.location_id, i.created_at,
		       i.name, i.description, i.serial_number, i.barcode, i.condition,
		       c.name, l.name, i.is_consumable, i.quantity, i.minimum_quantity,
		       i.purchase_date, i.purchase_price, i.warranty_expiration, i.notes
		FROM items i
		JOIN categories c ON c.id = i.category_id
		JOIN locations l ON l.id = i.location_id
		WHERE i.tenant_id = ?
		ORDER BY i.seq`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	out := []core.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", classify(err))
	}
	return out, nil
}

func scanItem(rows *sql.Rows) (core.Item, error) {
	var (
		it                 core.Item
		created, condition string
		purchase, warranty sql.NullString
		price              decimal.NullDecimal
	)
	err := rows.Scan(
		&it.ID, &it.TenantID, &it.CategoryID, &it.LocationID, &created,
		&it.Name, &it.Description, &it.SerialNumber, &it.Barcode, &condition,
		&it.CategoryName, &it.LocationName, &it.IsConsumable, &it.Quantity, &it.MinimumQuantity,
		&purchase, &price, &warranty, &it.Notes,
	)
	if err != nil {
		return core.Item{}, fmt.Errorf("scan item: %w", err)
	}

	it.Condition = core.Condition(condition)
	it.PurchasePrice = price
	if it.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return core.Item{}, fmt.Errorf("item %s created_at: %w", it.ID, err)
	}
	if it.PurchaseDate, err = parseDate(purchase); err != nil {
		return core.Item{}, fmt.Errorf("item %s purchase_date: %w", it.ID, err)
	}
	if it.WarrantyExpiration, err = parseDate(warranty); err != nil {
		return core.Item{}, fmt.Errorf("item %s warranty_expiration: %w", it.ID, err)
	}
	return it, nil
}

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return core.FormatDate(t)
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(core.DateLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// classify marks failures that leave the database unusable with
// core.ErrStoreUnavailable. Constraint violations pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_IOERR, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_FULL,
		sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_READONLY:
		return fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	return err
}
