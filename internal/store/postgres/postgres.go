// Package postgres implements core.Store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/conventory/internal/config"
	"github.com/JonMunkholm/conventory/internal/core"
)

//go:embed schema.sql
var schema string

// Store is a core.Store backed by a connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

// Open connects using cfg, verifies the connection and applies the schema.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", classify(err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", classify(err))
	}

	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. The caller owns the pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the embedded schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", classify(err))
	}
	return nil
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]core.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, name, parent_id, created_at
		FROM categories
		WHERE tenant_id = $1
		ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err))
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Category, error) {
		var c core.Category
		err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.ParentID, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err))
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (core.Category, error) {
	c := core.Category{ID: uuid.New(), TenantID: tenantID, Name: name, ParentID: parentID}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (id, tenant_id, name, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		c.ID, tenantID, name, parentID,
	).Scan(&c.CreatedAt)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", classify(err))
	}
	return c, nil
}

func (s *Store) ListLocations(ctx context.Context, tenantID uuid.UUID) ([]core.Location, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, name, parent_id, is_room, created_at
		FROM locations
		WHERE tenant_id = $1
		ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", classify(err))
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Location, error) {
		var l core.Location
		err := row.Scan(&l.ID, &l.TenantID, &l.Name, &l.ParentID, &l.IsRoom, &l.CreatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", classify(err))
	}
	return out, nil
}

func (s *Store) CreateLocation(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID, isRoom bool) (core.Location, error) {
	l := core.Location{ID: uuid.New(), TenantID: tenantID, Name: name, ParentID: parentID, IsRoom: isRoom}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO locations (id, tenant_id, name, parent_id, is_room)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		l.ID, tenantID, name, parentID, isRoom,
	).Scan(&l.CreatedAt)
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
		ItemFields: item.ItemFields,
	}
	f := item.ItemFields
	err := s.pool.QueryRow(ctx, `
		INSERT INTO items (
			id, tenant_id, category_id, location_id, name, description, serial_number,
			barcode, condition, is_consumable, quantity, minimum_quantity,
			purchase_date, purchase_price, warranty_expiration, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CAST($14::text AS numeric), $15, $16)
		RETURNING created_at,
			(SELECT name FROM categories WHERE id = category_id),
			(SELECT name FROM locations WHERE id = location_id)`,
		created.ID, tenantID, item.CategoryID, item.LocationID,
		f.Name, f.Description, f.SerialNumber, f.Barcode, string(f.Condition), f.IsConsumable,
		f.Quantity, f.MinimumQuantity, dateArg(f.PurchaseDate), decimalArg(f.PurchasePrice),
		dateArg(f.WarrantyExpiration), f.Notes,
	).Scan(&created.CreatedAt, &created.CategoryName, &created.LocationName)
	if err != nil {
		return core.Item{}, fmt.Errorf("insert item: %w", classify(err))
	}
	return created, nil
}

func (s *Store) ListItems(ctx context.Context, tenantID uuid.UUID) ([]core.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.tenant_id, i.category_id, i.location_id, i.created_at,
		       i.name, i.description, i.serial_number, i.barcode, i.condition,
		       c.name, l.name, i.is_consumable, i.quantity, i.minimum_quantity,
		       i.purchase_date, i.purchase_price::text, i.warranty_expiration, i.notes
		FROM items i
		JOIN categories c ON c.id = i.category_id
		JOIN locations l ON l.id = i.location_id
		WHERE i.tenant_id = $1
		ORDER BY i.seq`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", classify(err))
	}
	out, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", classify(err))
	}
	return out, nil
}

func scanItem(row pgx.CollectableRow) (core.Item, error) {
	var (
		it        core.Item
		condition string
		price     *string
	)
	err := row.Scan(
		&it.ID, &it.TenantID, &it.CategoryID, &it.LocationID, &it.CreatedAt,
		&it.Name, &it.Description, &it.SerialNumber, &it.Barcode, &condition,
		&it.CategoryName, &it.LocationName, &it.IsConsumable, &it.Quantity, &it.MinimumQuantity,
		&it.PurchaseDate, &price, &it.WarrantyExpiration, &it.Notes,
	)
	if err != nil {
		return core.Item{}, err
	}
	it.Condition = core.Condition(condition)
	if it.PurchasePrice, err = parseDecimal(price); err != nil {
		return core.Item{}, fmt.Errorf("item %s purchase_price: %w", it.ID, err)
	}
	return it, nil
}

// dateArg passes calendar dates as UTC midnight so the DATE column never
// shifts by the session time zone.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func decimalArg(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func parseDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
