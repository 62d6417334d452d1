package core

// results.go extracts NutrientResults from a row and resolves their units.
//
// A column yields a result when the lab config knows it as an analyte, or
// when its header is annotated with units or a test id. Columns mentioning
// "depth" never do: depth values often carry units too.

import (
	"regexp"
	"strings"
)

// UnitsConverter converts resolved results to standard units. It must not
// fail: results it cannot convert come back unchanged with a warning.
type UnitsConverter interface {
	ConvertUnits(results []NutrientResult) ([]NutrientResult, []UnitConversionWarning)
}

// PassthroughUnits is a UnitsConverter that leaves results unchanged.
type PassthroughUnits struct{}

func (PassthroughUnits) ConvertUnits(results []NutrientResult) ([]NutrientResult, []UnitConversionWarning) {
	return results, nil
}

type unitSource struct {
	name string
	read func(col string, h ColumnHeader, cfg *LabConfig) string
}

// unitSources is the precedence order for a result's unit.
var unitSources = []unitSource{
	{"override", func(_ string, h ColumnHeader, _ *LabConfig) string { return h.UnitsOverride }},
	{"header", func(_ string, h ColumnHeader, _ *LabConfig) string { return h.Units }},
	{"labConfig", func(col string, _ ColumnHeader, cfg *LabConfig) string {
		if cfg == nil {
			return ""
		}
		return cfg.Units[col]
	}},
	{"analyte", func(_ string, h ColumnHeader, _ *LabConfig) string { return h.NutrientResult.ValueUnit }},
}

// ResolveUnit returns the unit for column col.
func ResolveUnit(col string, h ColumnHeader, cfg *LabConfig) string {
	for _, src := range unitSources {
		if u := strings.TrimSpace(src.read(col, h, cfg)); u != "" {
			return u
		}
	}
	return ""
}

// baseSaturationRegex matches the base saturation element family.
var baseSaturationRegex = regexp.MustCompile(`^(Base Saturation - |BS-)`)

const percentUnit = "%"

// DedupBaseSaturation drops non-percent base saturation results whose
// element is also reported in percent.
func DedupBaseSaturation(results []NutrientResult) []NutrientResult {
	hasPercent := make(map[string]bool)
	for _, r := range results {
		if baseSaturationRegex.MatchString(r.Element) && r.ValueUnit == percentUnit {
			hasPercent[r.Element] = true
		}
	}
	if len(hasPercent) == 0 {
		return results
	}

	out := results[:0:0]
	for _, r := range results {
		if baseSaturationRegex.MatchString(r.Element) && r.ValueUnit != percentUnit && hasPercent[r.Element] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// isResultColumn decides whether a column carries an analyte.
func isResultColumn(col string, h ColumnHeader, cfg *LabConfig) bool {
	if h.Known {
		return true
	}
	if strings.Contains(strings.ToLower(col), "depth") {
		return false
	}
	if cfg != nil {
		if _, mapped := cfg.Mappings[col]; mapped {
			return false
		}
	}
	return h.Units != "" || h.ModusTestID != ""
}

// cellValue converts a result cell. Blank and non-scalar cells yield false.
func cellValue(v any) (Value, bool) {
	switch v.(type) {
	case string, float64, float32, int, int64:
	default:
		return Value{}, false
	}
	s := cellString(v)
	if s == "" {
		return Value{}, false
	}
	if f, ok := ToNumber(v); ok {
		return NumericValue(f), true
	}
	return TextValue(s), true
}

// ExtractNutrientResults builds the unit-resolved results of one row, in
// column order, with base saturation duplicates removed.
func ExtractNutrientResults(row Row, columns []string, headers map[string]ColumnHeader, cfg *LabConfig) []NutrientResult {
	var out []NutrientResult
	for _, col := range columns {
		raw, ok := row[col]
		if !ok {
			continue
		}
		h, ok := headers[col]
		if !ok {
			h = ParseHeader(col, cfg)
		}
		if !isResultColumn(col, h, cfg) {
			continue
		}
		val, ok := cellValue(raw)
		if !ok {
			continue
		}

		nr := h.NutrientResult
		if !h.Known {
			nr = NutrientResult{Element: h.Element}
		}
		if nr.ModusTestID == "" {
			nr.ModusTestID = h.ModusTestID
		}
		if nr.CsvHeader == "" {
			nr.CsvHeader = col
		}
		nr.Value = val
		nr.ValueUnit = ResolveUnit(col, h, cfg)
		out = append(out, nr)
	}
	return DedupBaseSaturation(out)
}
