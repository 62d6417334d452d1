package core

// header.go parses column names of the form "Element (TestID) [unit]".
// Both annotations are optional; anything before the first "(" or "[" is the
// element.

import (
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(` {2,}`)

// NormalizeColumnName trims a header, turns line breaks into spaces and
// collapses repeated spaces.
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\r\n", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	return multiSpaceRegex.ReplaceAllString(name, " ")
}

// ParseHeader splits a column name into element, test id and units. When cfg
// defines an analyte for the column (or its element) that definition is
// attached; otherwise the result carries only the element.
func ParseHeader(name string, cfg *LabConfig) ColumnHeader {
	original := NormalizeColumnName(name)

	element := strings.TrimSpace(extractBefore(original, "(["))
	if element == "" {
		element = original
	}

	h := ColumnHeader{
		Original:    original,
		Element:     element,
		ModusTestID: strings.TrimSpace(extractBetween(original, '(', ')')),
		Units:       strings.TrimSpace(extractBetween(original, '[', ']')),
	}

	if cfg != nil {
		if nr, ok := cfg.Analytes[original]; ok {
			h.NutrientResult, h.Known = nr, true
		} else if nr, ok := cfg.Analytes[element]; ok {
			h.NutrientResult, h.Known = nr, true
		}
	}
	if !h.Known {
		h.NutrientResult = NutrientResult{Element: element}
	}
	return h
}

// ElementResolver finds the element a test id belongs to. UnitsConverters
// that know their test ids implement it, so a header such as
// "(S-P-BIC.04) [ppm]" reads back as element "P (Olsen)".
type ElementResolver interface {
	ElementForTestID(id string) (string, bool)
}

// resolveElement names the element of a header that carries only a test id.
func resolveElement(h ColumnHeader, r ElementResolver, cfg *LabConfig) ColumnHeader {
	if h.Known || h.ModusTestID == "" || strings.TrimSpace(extractBefore(h.Original, "([")) != "" {
		return h
	}
	el, ok := r.ElementForTestID(h.ModusTestID)
	if !ok {
		return h
	}
	h.Element = el
	h.NutrientResult = NutrientResult{Element: el}
	if cfg != nil {
		if nr, ok := cfg.Analytes[el]; ok {
			h.NutrientResult, h.Known = nr, true
		}
	}
	return h
}

// ParseHeaders parses every column of a sheet, keyed by column name.
func ParseHeaders(columns []string, cfg *LabConfig) map[string]ColumnHeader {
	out := make(map[string]ColumnHeader, len(columns))
	for _, col := range columns {
		out[col] = ParseHeader(col, cfg)
	}
	return out
}

// extractBefore returns s up to the first of any of the stop characters,
// or all of s.
func extractBefore(s, stops string) string {
	if i := strings.IndexAny(s, stops); i >= 0 {
		return s[:i]
	}
	return s
}

// extractBetween returns the text between the first open and the last close.
// A missing close yields the rest of s; a missing open yields "".
func extractBetween(s string, open, closing byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	rest := s[start+1:]
	end := strings.LastIndexByte(rest, closing)
	if end < 0 {
		return rest
	}
	return rest[:end]
}
