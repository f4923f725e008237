package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "no header", err: &ParseError{Line: 1, Err: ErrNoHeader}, wantCode: "CSV001"},
		{name: "field count", err: &ParseError{Line: 4, Err: fmt.Errorf("%w: expected 6, got 3", ErrFieldCount)}, wantCode: "CSV002"},
		{name: "quoting", err: &ParseError{Line: 2, Err: ErrMalformedQuote}, wantCode: "CSV003"},
		{name: "header", err: &ParseError{Line: 1, Err: ErrInvalidHeader}, wantCode: "CSV004"},
		{name: "required field", err: ValidationError{Row: 1, Field: "name", Message: "required field is empty"}, wantCode: "VAL001"},
		{name: "unknown condition", err: ValidationError{Row: 2, Message: "unknown condition 'x' at row 2"}, wantCode: "VAL002"},
		{name: "whole number", err: errNotInteger, wantCode: "VAL003"},
		{name: "price", err: errNotDecimal, wantCode: "VAL004"},
		{name: "date", err: errNotDate, wantCode: "VAL005"},
		{name: "bool", err: errNotBool, wantCode: "VAL006"},
		{name: "reference creation", err: &ReferenceCreationError{Row: 1, Kind: KindCategory, Name: "Audio", Err: errors.New("boom")}, wantCode: "REF001"},
		{name: "duplicate key", err: errors.New("ERROR: duplicate key value violates unique constraint"), wantCode: "DB001"},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connection refused"), wantCode: "DB003"},
		{name: "unavailable wins over text", err: fmt.Errorf("%w: connection refused", ErrStoreUnavailable), wantCode: "DB004"},
		{name: "abort wraps unavailable", err: &PersistenceError{Row: 3, Op: "create item", Unavailable: true, Err: ErrStoreUnavailable}, wantCode: "DB004"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "DB006"},
		{name: "busy", err: ErrTooManyImports, wantCode: "IMP001"},
		{name: "too large", err: fmt.Errorf("%w: 20 bytes", ErrFileTooLarge), wantCode: "IMP002"},
		{name: "cancelled", err: context.Canceled, wantCode: "IMP003"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
		{name: "case insensitive matching", err: errors.New("DUPLICATE KEY value"), wantCode: "DB001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyImports)
	want := "Too many imports are running (Code: IMP001). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: &ParseError{Err: ErrNoHeader}, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
