package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseCSV tokenizes CSV text into its header and data rows.
//
// Data rows are numbered from 1, header excluded. Rows whose cells are all
// blank are skipped but still consume a number so reported row numbers match
// what the user sees in a spreadsheet. Blank cells at the end of the header
// do not count toward its width, and trailing empty cells beyond that width
// are dropped; any other width mismatch is a *ParseError.
func ParseCSV(text string) ([]string, []RawRow, error) {
	r := csv.NewReader(NewCleanReader(strings.NewReader(text)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &ParseError{Line: 1, Err: ErrNoHeader}
	}
	if err != nil {
		return nil, nil, toParseError(err)
	}

	idx, err := ValidateHeader(header)
	if err != nil {
		return nil, nil, err
	}
	header = dropTrailingEmpty(header, 0)

	var rows []RawRow
	for number := 1; ; number++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, toParseError(err)
		}

		record = dropTrailingEmpty(record, len(header))
		if len(record) != len(header) {
			line, _ := r.FieldPos(0)
			return nil, nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, len(header), len(record)),
			}
		}
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, RawRow{Number: number, Fields: record, index: idx})
	}
	return header, rows, nil
}

// SerializeCSV renders rows in exactly the column order of header. Missing
// keys become empty cells. Output uses LF line endings.
func SerializeCSV(header []string, rows []Record) string {
	var b strings.Builder
	w := csv.NewWriter(&b)

	// strings.Builder never fails a write, so the writer cannot error.
	_ = w.Write(header)
	line := make([]string, len(header))
	for _, rec := range rows {
		for i, col := range header {
			line[i] = rec[col]
		}
		_ = w.Write(line)
	}
	w.Flush()
	return b.String()
}

func toParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		inner := csvErr.Err
		if errors.Is(inner, csv.ErrQuote) || errors.Is(inner, csv.ErrBareQuote) {
			inner = fmt.Errorf("%w: %v", ErrMalformedQuote, csvErr.Err)
		}
		return &ParseError{Line: csvErr.Line, Err: inner}
	}
	return &ParseError{Err: err}
}

func dropTrailingEmpty(record []string, width int) []string {
	for len(record) > width && strings.TrimSpace(record[len(record)-1]) == "" {
		record = record[:len(record)-1]
	}
	return record
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
