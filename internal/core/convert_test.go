package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"ISO", "2020-01-01", "2020-01-01", true},
		{"ISO leap day", "2024-02-29", "2024-02-29", true},
		{"US slashes", "3/14/2021", "2021-03-14", true},
		{"US padded", "03/14/2021", "2021-03-14", true},
		{"US dashes", "3-14-2021", "2021-03-14", true},
		{"slashed ISO", "2021/03/14", "2021-03-14", true},
		{"month name", "Mar 14, 2021", "2021-03-14", true},
		{"long month name", "March 14, 2021", "2021-03-14", true},
		{"day month year", "14-Mar-2021", "2021-03-14", true},
		{"RFC3339", "2021-03-14T10:00:00Z", "2021-03-14", true},
		{"with time", "2021-03-14 10:30:00", "2021-03-14", true},
		{"US with clock", "3/14/2021 3:04 PM", "2021-03-14", true},
		{"compact", "20210314", "2021-03-14", true},
		{"excel serial", "43831", "2020-01-01", true},
		{"excel formula", `="2020-01-01"`, "2020-01-01", true},
		{"whitespace", "  2020-01-01  ", "2020-01-01", true},
		{"empty", "", "", false},
		{"text", "not a date", "", false},
		{"invalid day", "2021-02-30", "", false},
		{"NA", "NA", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate_TwoDigitYear(t *testing.T) {
	originalPivot := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = originalPivot }()
	TwoDigitYearPivot = 20

	currentYear := time.Now().Year()
	tests := []struct {
		name     string
		input    string
		wantYear int
	}{
		{"recent year stays in century", "01/15/20", 2020},
		{"far future rolls back", "01/15/99", 1999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tt.input)
			}
			parsed, _ := time.Parse(dateLayout, got)
			if parsed.Year() != tt.wantYear {
				t.Errorf("ParseDate(%q) year = %d, want %d", tt.input, parsed.Year(), tt.wantYear)
			}
			if parsed.Year() > currentYear+TwoDigitYearPivot {
				t.Errorf("ParseDate(%q) year %d beyond pivot", tt.input, parsed.Year())
			}
		})
	}
}

func TestParseDateCell(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   string
		wantOK bool
	}{
		{"time value", time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC), "2022-06-01", true},
		{"serial float", float64(43831), "2020-01-01", true},
		{"serial with fraction", 43831.5, "2020-01-01", true},
		{"string", "6/1/2022", "2022-06-01", true},
		{"nil", nil, "", false},
		{"small number", float64(12), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateCell(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseDateCell(%v) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToNumber Tests
// ----------------------------------------------------------------------------

func TestToNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"integer string", "161", 161, true},
		{"decimal string", "6.45", 6.45, true},
		{"negative", "-2.5", -2.5, true},
		{"leading dot", ".5", 0.5, true},
		{"thousands", "1,234.5", 1234.5, true},
		{"scientific", "1.5e3", 1500, true},
		{"padded", "  42 ", 42, true},
		{"float64", 3.25, 3.25, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"below detection", "<0.1", 0, false},
		{"text", "high", 0, false},
		{"empty", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ToNumber(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ToNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"0", 0, true},
		{"8 in", 8, true},
		{" 12cm", 12, true},
		{"-3", -3, true},
		{"6.5", 6, true},
		{"in", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := leadingInt(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("leadingInt(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple string unchanged", "hello", "hello"},
		{"empty string", "", ""},
		{"surrounded by whitespace", "  hello  ", "hello"},
		{"Excel formula with quotes", `="hello"`, "hello"},
		{"equals with quoted number", `="0"`, "0"},
		{"formula prefix without quotes", "=42", "42"},
		{"double quoted", `"abc"`, "abc"},
		{"single quoted empty", "''", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCell(tt.input)
			if got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
