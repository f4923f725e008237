package core

// importer.go sequences one import run:
//
//	Parsing → Validating → Resolving+Persisting → Completed
//
// No stage is revisited and nothing is retried. Problems with individual
// rows are collected into the result and never stop the run. Only malformed
// CSV, an unavailable store, or cancellation end a run early.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunImport imports text for one tenant.
//
// A *ParseError is returned with a nil result. When the store becomes
// unavailable or ctx is cancelled mid-run, the partial result is returned
// together with the error; rows committed before that point stay committed.
func RunImport(ctx context.Context, store Store, tenantID uuid.UUID, text string, opts ImportOptions) (*ImportResult, error) {
	start := time.Now()

	_, rows, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		ValidateOnly: opts.ValidateOnly,
		Errors:       []ValidationError{},
	}
	finish := func() *ImportResult {
		result.Success = len(result.Errors) == 0
		result.Duration = time.Since(start)
		return result
	}

	valid, invalid := ValidateRows(rows)
	result.Errors = append(result.Errors, invalid...)
	result.RowsProcessed = len(rows) - len(valid)

	if len(valid) == 0 {
		return finish(), nil
	}

	resolver := NewResolver(store, tenantID, opts.ValidateOnly, &result.Stats)
	if err := resolver.Seed(ctx); err != nil {
		return finish(), err
	}

	for _, row := range valid {
		if err := ctx.Err(); err != nil {
			return finish(), err
		}

		rowErrs, err := importRow(ctx, store, tenantID, resolver, row, opts.ValidateOnly)
		if err != nil {
			return finish(), err
		}
		if len(rowErrs) == 0 {
			result.Stats.ItemsAdded++
		}
		result.Errors = append(result.Errors, rowErrs...)
		result.RowsProcessed++
	}

	return finish(), nil
}

// importRow resolves both references of row and persists it. Row-level
// problems are returned as validation errors; a non-nil error aborts the run.
func importRow(ctx context.Context, store Store, tenantID uuid.UUID, resolver *Resolver, row ValidatedItemRow, validateOnly bool) ([]ValidationError, error) {
	var errs []ValidationError

	categoryID, err := resolver.ResolveCategory(ctx, row.RowNumber, row.CategoryName)
	if err != nil {
		if isUnavailable(err) {
			return nil, &PersistenceError{Row: row.RowNumber, Op: "create category", Unavailable: true, Err: err}
		}
		errs = append(errs, referenceError(row.RowNumber, ColCategoryName, err))
	}

	locationID, err := resolver.ResolveLocation(ctx, row.RowNumber, row.LocationName)
	if err != nil {
		if isUnavailable(err) {
			return nil, &PersistenceError{Row: row.RowNumber, Op: "create location", Unavailable: true, Err: err}
		}
		errs = append(errs, referenceError(row.RowNumber, ColLocationName, err))
	}

	if len(errs) > 0 || validateOnly {
		return errs, nil
	}

	_, err = store.CreateItem(ctx, tenantID, NewItem{
		ItemFields: row.ItemFields,
		CategoryID: categoryID,
		LocationID: locationID,
	})
	if err != nil {
		if isUnavailable(err) {
			return nil, &PersistenceError{Row: row.RowNumber, Op: "create item", Unavailable: true, Err: err}
		}
		return []ValidationError{{
			Row:     row.RowNumber,
			Field:   ColName,
			Value:   row.Name,
			Message: fmt.Sprintf("could not save item: %v", err),
		}}, nil
	}
	return nil, nil
}

func referenceError(row int, field string, err error) ValidationError {
	var refErr *ReferenceCreationError
	if !errors.As(err, &refErr) {
		return ValidationError{Row: row, Field: field, Message: err.Error()}
	}
	return ValidationError{
		Row:     refErr.Row,
		Field:   field,
		Value:   refErr.Name,
		Message: fmt.Sprintf("could not create %s '%s': %v", refErr.Kind, displayName(refErr.Name), refErr.Err),
	}
}
