package core

// convert.go provides cell conversion helpers for spreadsheet data.
//
// These functions handle the messy reality of lab exports:
//   - Multiple date formats (US, ISO, compact yyyymmdd, Excel serials)
//   - Thousands separators in numbers
//   - Excel formula prefixes (="value")
//
// Conversions report ok=false for empty or invalid input so callers can
// fall back to the original text.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the canonical event date format.
const dateLayout = "2006-01-02"

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// compactDateRegex matches yyyymmdd dates written as a bare number.
var compactDateRegex = regexp.MustCompile(`^\d{8}$`)

// serialDateRegex matches Excel serial day numbers from 1927 onward.
var serialDateRegex = regexp.MustCompile(`^\d{5}(\.\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "01-02-06", "1.2.06", "01.02.06",
		"2-Jan-06", "02-Jan-06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006",
		"2-Jan-2006", "02-Jan-2006",
		time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04",
		"1/2/2006 15:04", "1/2/2006 15:04:05", "1/2/2006 3:04:05 PM", "1/2/2006 3:04 PM",
	}
)

// excelEpoch is day zero of Excel's 1900 date system, adjusted for its
// phantom 1900-02-29.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a permissive date string and returns it as YYYY-MM-DD.
func ParseDate(s string) (string, bool) {
	t, ok := parseTime(s)
	if !ok {
		return "", false
	}
	return t.Format(dateLayout), true
}

// ParseDateCell is ParseDate for a raw cell of any type.
func ParseDateCell(v any) (string, bool) {
	if t, ok := v.(time.Time); ok {
		return t.Format(dateLayout), true
	}
	if f, ok := v.(float64); ok {
		if t, ok := fromExcelSerial(f); ok {
			return t.Format(dateLayout), true
		}
	}
	return ParseDate(cellString(v))
}

func parseTime(s string) (time.Time, bool) {
	s = CleanCell(s)
	if s == "" {
		return time.Time{}, false
	}

	if compactDateRegex.MatchString(s) {
		t, err := time.Parse("20060102", s)
		if err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	if serialDateRegex.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return fromExcelSerial(f)
		}
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	currentYear := time.Now().Year()
	pivotYear := currentYear + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

func fromExcelSerial(f float64) (time.Time, bool) {
	if f < 10000 || f > 99999 {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(f)), true
}

// ToNumber converts a cell to a float64. Strings may carry thousands
// separators. Returns false for empty or non-numeric input.
func ToNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		return parseNumber(x)
	}
	return 0, false
}

func parseNumber(s string) (float64, bool) {
	s = CleanCell(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// leadingIntRegex captures the integer a string starts with.
var leadingIntRegex = regexp.MustCompile(`^\s*([+-]?\d+)`)

// leadingInt parses the integer prefix of s, ignoring trailing text such as
// units. Returns false when s does not start with digits.
func leadingInt(s string) (float64, bool) {
	m := leadingIntRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	i, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(i), true
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
