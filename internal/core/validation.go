package core

// validation.go turns raw CSV rows into typed item rows.
//
// Validation happens at two levels:
//  1. Header validation: every column must be known, none repeated, and the
//     required columns present. A bad header aborts the run (ParseError).
//  2. Row validation: each cell is checked against its FieldSpec. All problems
//     in a row are collected, the row is dropped, and the next row is checked.

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError describes one problem with one row. Row is 0 for problems
// that are not tied to a data row.
type ValidationError struct {
	Row     int    `json:"rowNumber"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	case e.Row > 0:
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidateHeader checks a header row and returns the column index for it.
// Blank header cells are ignored so a trailing delimiter is harmless.
func ValidateHeader(header []string) (HeaderIndex, error) {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(CleanCell(h))
		if name == "" {
			continue
		}
		if _, ok := lookupFieldSpec(name); !ok {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: unknown column %q", ErrInvalidHeader, h)}
		}
		if _, dup := idx[name]; dup {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: duplicate column %q", ErrInvalidHeader, h)}
		}
		idx[name] = i
	}

	var missing []string
	for _, spec := range ItemFieldSpecs {
		if !spec.Required {
			continue
		}
		if _, ok := idx[spec.Name]; !ok {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{
			Line: 1,
			Err:  fmt.Errorf("%w: missing required columns: %s", ErrInvalidHeader, strings.Join(missing, ", ")),
		}
	}
	return idx, nil
}

// RowValidator validates rows against a set of field specifications.
type RowValidator struct {
	specs []FieldSpec
}

// NewRowValidator creates a validator for the given field specifications.
func NewRowValidator(specs []FieldSpec) *RowValidator {
	return &RowValidator{specs: specs}
}

// ValidateRows validates every row against the item layout. Rows with any
// error are left out of the returned slice; their errors are returned in
// row order.
func ValidateRows(rows []RawRow) ([]ValidatedItemRow, []ValidationError) {
	v := NewRowValidator(ItemFieldSpecs)

	valid := make([]ValidatedItemRow, 0, len(rows))
	var errs []ValidationError
	for _, row := range rows {
		item, rowErrs := v.ValidateRow(row)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		valid = append(valid, item)
	}
	return valid, errs
}

// ValidateRow checks a single row and reports every problem found in it.
// The returned row is only meaningful when no errors are returned.
func (v *RowValidator) ValidateRow(row RawRow) (ValidatedItemRow, []ValidationError) {
	var errs []ValidationError
	cells := make(map[string]string, len(v.specs))

	for _, spec := range v.specs {
		raw, _ := row.Get(spec.Name)
		raw = CleanCell(raw)

		if raw == "" {
			if spec.Required {
				errs = append(errs, ValidationError{
					Row:     row.Number,
					Field:   spec.Name,
					Message: "required field is empty",
				})
			}
			continue
		}

		if err := ValidateCell(raw, spec); err != nil {
			msg := err.Error()
			if spec.Type == FieldEnum {
				msg = fmt.Sprintf("unknown %s '%s' at row %d", spec.Name, raw, row.Number)
			}
			errs = append(errs, ValidationError{
				Row:     row.Number,
				Field:   spec.Name,
				Value:   raw,
				Message: msg,
			})
			continue
		}
		cells[spec.Name] = raw
	}

	item := buildItemRow(row.Number, cells)

	// A consumable needs a stock count. An invalid quantity was already reported.
	if item.IsConsumable && item.Quantity == nil {
		if raw, _ := row.Get(ColQuantity); CleanCell(raw) == "" {
			errs = append(errs, ValidationError{
				Row:     row.Number,
				Field:   ColQuantity,
				Message: "quantity is required for consumable items",
			})
		}
	}

	if len(errs) > 0 {
		return ValidatedItemRow{}, errs
	}
	return item, nil
}

// ValidateCell validates a single non-blank cell against a field specification.
func ValidateCell(value string, spec FieldSpec) error {
	if value == "" {
		return nil
	}

	var err error
	switch spec.Type {
	case FieldInteger:
		_, err = ParseNonNegativeInt(value)
	case FieldDecimal:
		_, err = ParseDecimal(value)
	case FieldDate:
		_, err = ParseDate(value)
	case FieldBool:
		_, err = ParseBool(value)
	case FieldEnum:
		for _, ev := range spec.EnumValues {
			if strings.EqualFold(ev, value) {
				return nil
			}
		}
		err = fmt.Errorf("value must be one of: %s", strings.Join(spec.EnumValues, ", "))
	}
	return err
}

// buildItemRow assembles a typed row from cells that already passed
// ValidateCell, so conversion errors cannot occur here.
func buildItemRow(number int, cells map[string]string) ValidatedItemRow {
	row := ValidatedItemRow{RowNumber: number}
	row.Name = cells[ColName]
	row.Description = cells[ColDescription]
	row.SerialNumber = cells[ColSerialNumber]
	row.Barcode = cells[ColBarcode]
	row.Condition, _ = ParseCondition(cells[ColCondition])
	row.CategoryName = cells[ColCategoryName]
	row.LocationName = cells[ColLocationName]
	row.IsConsumable, _ = ParseBool(cells[ColIsConsumable])
	row.Quantity = optionalInt(cells, ColQuantity)
	row.MinimumQuantity = optionalInt(cells, ColMinimumQuantity)
	row.PurchaseDate = optionalDate(cells, ColPurchaseDate)
	row.WarrantyExpiration = optionalDate(cells, ColWarrantyExpiration)
	row.Notes = cells[ColNotes]

	if raw, ok := cells[ColPurchasePrice]; ok {
		if d, err := ParseDecimal(raw); err == nil {
			row.PurchasePrice.Decimal = d
			row.PurchasePrice.Valid = true
		}
	}
	return row
}

func optionalInt(cells map[string]string, column string) *int {
	raw, ok := cells[column]
	if !ok {
		return nil
	}
	n, err := ParseNonNegativeInt(raw)
	if err != nil {
		return nil
	}
	return &n
}

func optionalDate(cells map[string]string, column string) *time.Time {
	raw, ok := cells[column]
	if !ok {
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}
