package core

import (
	"testing"
	"time"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Audio", want: "Audio"},
		{name: "surrounding whitespace", input: "  Audio \t", want: "Audio"},
		{name: "excel text formula", input: `="00123"`, want: "00123"},
		{name: "excel formula with spaces", input: ` ="A1" `, want: "A1"},
		{name: "bare equals kept", input: "=", want: "="},
		{name: "quotes kept", input: `"quoted"`, want: `"quoted"`},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNonNegativeInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr error
	}{
		{input: "0", want: 0},
		{input: "42", want: 42},
		{input: " 7 ", want: 7},
		{input: "-1", wantErr: errNegative},
		{input: "1.5", wantErr: errNotInteger},
		{input: "ten", wantErr: errNotInteger},
		{input: "", wantErr: errNotInteger},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNonNegativeInt(tt.input)
			if err != tt.wantErr {
				t.Fatalf("ParseNonNegativeInt(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseNonNegativeInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		// Valid
		{name: "integer", input: "100", want: "100"},
		{name: "decimal", input: "199.99", want: "199.99"},
		{name: "leading decimal point", input: ".99", want: "0.99"},
		{name: "trailing decimal point", input: "99.", want: "99"},
		{name: "dollar with thousands", input: "$1,234.56", want: "1234.56"},
		{name: "several thousands groups", input: "1,234,567", want: "1234567"},
		{name: "euro", input: "€1234.56", want: "1234.56"},
		{name: "pound", input: "£12", want: "12"},
		{name: "zero", input: "0.00", want: "0"},

		// Invalid
		{name: "negative", input: "-5", wantErr: errNegative},
		{name: "letters", input: "abc", wantErr: errNotDecimal},
		{name: "two points", input: "1.2.3", wantErr: errNotDecimal},
		{name: "exponent", input: "1e5", wantErr: errNotDecimal},
		{name: "only symbol", input: "$", wantErr: errNotDecimal},
		{name: "decimal comma", input: "1,5", wantErr: errNotDecimal},
		{name: "leading comma", input: ",5", wantErr: errNotDecimal},
		{name: "single digit groups", input: "1,2,3", wantErr: errNotDecimal},
		{name: "short thousands group", input: "1,23.45", wantErr: errNotDecimal},
		{name: "oversized leading group", input: "1234,567", wantErr: errNotDecimal},
		{name: "negative with thousands", input: "-1,000", wantErr: errNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if err != tt.wantErr {
				t.Fatalf("ParseDecimal(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("ParseDecimal(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "iso date", input: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "padded", input: " 2024-12-31 ", want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 truncated", input: "2024-03-05T18:30:00Z", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "us format rejected", input: "01/15/2024", wantErr: true},
		{name: "invalid day", input: "2024-02-30", wantErr: true},
		{name: "text", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{input: "true", want: true},
		{input: "TRUE", want: true},
		{input: "False", want: false},
		{input: "", want: false},
		{input: "yes", wantErr: true},
		{input: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBool(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBool(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCondition(t *testing.T) {
	for _, c := range Conditions {
		if got, ok := ParseCondition(" " + string(c) + " "); !ok || got != c {
			t.Errorf("ParseCondition(%q) = %q, %v", c, got, ok)
		}
	}
	if got, ok := ParseCondition("GOOD"); !ok || got != ConditionGood {
		t.Errorf("ParseCondition(GOOD) = %q, %v, want good, true", got, ok)
	}
	if _, ok := ParseCondition("excellent"); ok {
		t.Error("ParseCondition(excellent) should fail")
	}
}
