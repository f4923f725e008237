package core

import (
	"errors"
	"fmt"
)

// Parse failures. They are always wrapped in a *ParseError.
var (
	ErrNoHeader       = errors.New("missing header row")
	ErrFieldCount     = errors.New("wrong number of fields")
	ErrMalformedQuote = errors.New("malformed quoting")
	ErrInvalidHeader  = errors.New("invalid header")
)

// ErrStoreUnavailable marks a store failure after which no further write can
// succeed. Stores wrap their connection errors with it; the importer aborts
// the run when it sees one.
var ErrStoreUnavailable = errors.New("store unavailable")

// ParseError reports malformed CSV. It aborts the run with no partial result.
type ParseError struct {
	Line int // 1-indexed physical line, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReferenceKind names the entity a reference points to.
type ReferenceKind string

const (
	KindCategory ReferenceKind = "category"
	KindLocation ReferenceKind = "location"
)

// ReferenceCreationError reports that a category or location could not be
// created for a row.
type ReferenceCreationError struct {
	Row  int
	Kind ReferenceKind
	Name string
	Err  error
}

func (e *ReferenceCreationError) Error() string {
	return fmt.Sprintf("row %d: create %s %q: %v", e.Row, e.Kind, e.Name, e.Err)
}

func (e *ReferenceCreationError) Unwrap() error { return e.Err }

// PersistenceError reports a failed store write for a row. When Unavailable
// is set the whole run was aborted.
type PersistenceError struct {
	Row         int
	Op          string
	Unavailable bool
	Err         error
}

func (e *PersistenceError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func isUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
