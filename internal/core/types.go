package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Condition is the physical state of an inventory item.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
	ConditionDamaged Condition = "damaged"
	ConditionRetired Condition = "retired"
)

// Conditions lists every valid condition in display order.
var Conditions = []Condition{
	ConditionNew,
	ConditionGood,
	ConditionFair,
	ConditionPoor,
	ConditionDamaged,
	ConditionRetired,
}

// ParseCondition matches s case-insensitively against the known conditions.
func ParseCondition(s string) (Condition, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Conditions {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Category groups items. Unique per tenant by (lower(name), parent).
type Category struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenantId"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Location is where items are kept. Unique per tenant by (lower(name), parent).
type Location struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenantId"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	IsRoom    bool       `json:"isRoom"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ItemFields holds the user-editable attributes of an item. It is shared by
// imported rows and persisted items so the two directions stay symmetric.
type ItemFields struct {
	Name               string              `json:"name"`
	Description        string              `json:"description,omitempty"`
	SerialNumber       string              `json:"serialNumber,omitempty"`
	Barcode            string              `json:"barcode,omitempty"`
	Condition          Condition           `json:"condition"`
	CategoryName       string              `json:"categoryName"`
	LocationName       string              `json:"locationName"`
	IsConsumable       bool                `json:"isConsumable"`
	Quantity           *int                `json:"quantity,omitempty"`
	MinimumQuantity    *int                `json:"minimumQuantity,omitempty"`
	PurchaseDate       *time.Time          `json:"purchaseDate,omitempty"`
	PurchasePrice      decimal.NullDecimal `json:"purchasePrice"`
	WarrantyExpiration *time.Time          `json:"warrantyExpiration,omitempty"`
	Notes              string              `json:"notes,omitempty"`
}

// ValidatedItemRow is a CSV row that passed validation.
type ValidatedItemRow struct {
	RowNumber int // 1-indexed, header excluded
	ItemFields
}

// NewItem is the input to Store.CreateItem: a validated row with its
// references resolved to persisted ids.
type NewItem struct {
	ItemFields
	CategoryID uuid.UUID
	LocationID uuid.UUID
}

// Item is a persisted inventory item. CategoryName and LocationName are
// populated by store listings so items can be exported without lookups.
type Item struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenantId"`
	CategoryID uuid.UUID `json:"categoryId"`
	LocationID uuid.UUID `json:"locationId"`
	CreatedAt  time.Time `json:"createdAt"`
	ItemFields
}

// Store is the record store consumed by the engine.
// Implementations live under internal/store.
type Store interface {
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]Category, error)
	CreateCategory(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (Category, error)
	ListLocations(ctx context.Context, tenantID uuid.UUID) ([]Location, error)
	CreateLocation(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID, isRoom bool) (Location, error)
	CreateItem(ctx context.Context, tenantID uuid.UUID, item NewItem) (Item, error)
	ListItems(ctx context.Context, tenantID uuid.UUID) ([]Item, error)
}

// FieldType represents the expected data type for a CSV column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldDecimal
	FieldInteger
	FieldBool
)

// FieldSpec defines validation rules for a single CSV column.
type FieldSpec struct {
	Name       string    // Canonical column name
	Type       FieldType // Expected data type
	Required   bool      // Column must exist in the header and the cell must be non-blank
	EnumValues []string  // Valid values for FieldEnum
}

// HeaderIndex maps column names (lowercase) to their position in a CSV row.
type HeaderIndex map[string]int

// RawRow is one parsed CSV data line.
type RawRow struct {
	Number int // 1-indexed, header excluded
	Fields []string
	index  HeaderIndex
}

// Get returns the cell for column, matched case-insensitively.
// The second result is false when the column is not in the header.
func (r RawRow) Get(column string) (string, bool) {
	pos, ok := r.index[strings.ToLower(column)]
	if !ok || pos >= len(r.Fields) {
		return "", false
	}
	return r.Fields[pos], true
}

// Record is one row handed to SerializeCSV, keyed by column name.
type Record map[string]string

// ImportStats counts what an import committed (or would commit in
// validate-only mode).
type ImportStats struct {
	CategoriesAdded int `json:"categoriesAdded"`
	LocationsAdded  int `json:"locationsAdded"`
	ItemsAdded      int `json:"itemsAdded"`
}

// ImportOptions controls an import run.
type ImportOptions struct {
	ValidateOnly bool // Parse, validate and resolve without persisting
}

// ImportResult is the outcome of an import run.
type ImportResult struct {
	Success       bool              `json:"success"`
	Stats         ImportStats       `json:"stats"`
	Errors        []ValidationError `json:"errors"`
	ValidateOnly  bool              `json:"validateOnly"`
	RowsProcessed int               `json:"rowsProcessed"`
	Duration      time.Duration     `json:"durationNs"`
}
