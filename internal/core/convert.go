package core

// convert.go turns raw CSV cells into typed item values.
//
// Spreadsheet data is messy, so cells are cleaned before parsing:
//   - Surrounding whitespace is trimmed
//   - Excel text-formula wrappers (="value") are removed
//   - Currency symbols and thousands separators are dropped from prices
//
// Unlike a lenient importer, every parser here reports failure instead of
// coercing: an unparseable quantity is an error, never a silent zero.

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for dates in both directions.
const DateLayout = "2006-01-02"

// numericRegex validates that a string is a plain decimal after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// thousandsRegex matches a number whose commas are all thousands separators.
var thousandsRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

var (
	errNotInteger = errors.New("must be a whole number")
	errNegative   = errors.New("must not be negative")
	errNotDecimal = errors.New("invalid number format")
	errNotDate    = errors.New("invalid date format (use YYYY-MM-DD)")
	errNotBool    = errors.New("must be true or false")
)

// CleanCell removes common CSV artifacts from a cell value.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}

// ParseNonNegativeInt parses a whole, non-negative number.
func ParseNonNegativeInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errNotInteger
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}

// ParseDecimal parses a non-negative decimal amount. Currency symbols are
// ignored, as are commas grouping thousands. Any other comma, such as a
// decimal comma, is an error.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !thousandsRegex.MatchString(s) {
			return decimal.Decimal{}, errNotDecimal
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, errNotDecimal
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errNotDecimal
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegative
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD date. A full RFC 3339 timestamp is also
// accepted and truncated to its calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, errNotDate
}

// ParseBool accepts the literals true and false in any case.
// A blank cell is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false", "":
		return false, nil
	default:
		return false, errNotBool
	}
}

// FormatDate renders an optional date for export.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatInt renders an optional integer for export.
func FormatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// FormatDecimal renders an optional decimal for export.
func FormatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
