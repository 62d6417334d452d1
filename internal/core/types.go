package core

import (
	"encoding/json"
	"sort"
	"strconv"
)

// LabType names the kind of material a lab report covers.
type LabType string

const (
	LabSoil     LabType = "Soil"
	LabPlant    LabType = "Plant"
	LabWater    LabType = "Water"
	LabNematode LabType = "Nematode"
	LabResidue  LabType = "Residue"
)

// ParseLabType returns the LabType matching s case-insensitively.
func ParseLabType(s string) (LabType, bool) {
	switch normalizeKey(s) {
	case "SOIL":
		return LabSoil, true
	case "PLANT", "TISSUE":
		return LabPlant, true
	case "WATER":
		return LabWater, true
	case "NEMATODE":
		return LabNematode, true
	case "RESIDUE":
		return LabResidue, true
	}
	return "", false
}

// Row is one spreadsheet row keyed by column name. Values are strings,
// float64, int, bool, time.Time or nil depending on the reader.
type Row map[string]any

// Sheet is a named table of rows. Columns keeps the header order of the
// source when the reader knows it.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Workbook is an ordered list of sheets read from one upload.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// Value is a measured value: a number when the cell parsed as one, otherwise
// the original text.
type Value struct {
	Number float64
	Text   string
	IsText bool
}

// NumericValue wraps a number.
func NumericValue(f float64) Value { return Value{Number: f} }

// TextValue wraps text that could not be read as a number.
func TextValue(s string) Value { return Value{Text: s, IsText: true} }

// Float returns the numeric value and whether the value is numeric.
func (v Value) Float() (float64, bool) {
	if v.IsText {
		return 0, false
	}
	return v.Number, true
}

func (v Value) String() string {
	if v.IsText {
		return v.Text
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Number)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = NumericValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = TextValue(s)
	return nil
}

// NutrientResult is one measured analyte. Lab tables use it as a template
// with a zero Value.
type NutrientResult struct {
	Element     string `json:"Element" validate:"required"`
	Value       Value  `json:"Value"`
	ValueUnit   string `json:"ValueUnit,omitempty"`
	ModusTestID string `json:"ModusTestID,omitempty"`
	CsvHeader   string `json:"CsvHeader,omitempty"`
}

// DepthHint carries whatever depth facts a lab table knows. Nil range
// fields are unknown.
type DepthHint struct {
	Name          string
	DepthUnit     string
	StartingDepth *float64
	EndingDepth   *float64
	ColumnDepth   *float64
}

// Float returns a pointer to f, for building DepthHints.
func Float(f float64) *float64 { return &f }

// DepthInfo is either a static DepthHint or a function computing one from
// the row being converted.
type DepthInfo struct {
	static  *DepthHint
	compute func(Row) (DepthHint, bool)
}

// StaticDepth returns DepthInfo that always yields h.
func StaticDepth(h DepthHint) *DepthInfo {
	return &DepthInfo{static: &h}
}

// ComputedDepth returns DepthInfo that asks fn for each row. fn reports
// false when the row carries no usable depth.
func ComputedDepth(fn func(Row) (DepthHint, bool)) *DepthInfo {
	return &DepthInfo{compute: fn}
}

// Hint resolves the depth hint for row.
func (d *DepthInfo) Hint(row Row) (DepthHint, bool) {
	switch {
	case d == nil:
		return DepthHint{}, false
	case d.compute != nil:
		return d.compute(row)
	case d.static != nil:
		return *d.static, true
	default:
		return DepthHint{}, false
	}
}

// Mappings maps a source column name to the canonical fields it feeds.
// A column mapped to nothing is known to the lab but carries no data.
type Mappings map[string][]string

// LabConfig describes how one lab's spreadsheets are laid out.
type LabConfig struct {
	Name        string
	Type        LabType
	TypeFunc    func(Row) LabType
	Mappings    Mappings
	Analytes    map[string]NutrientResult
	Units       map[string]string
	Headers     []string
	DepthInfo   *DepthInfo
	ExamplesKey string
}

// Key identifies the config in a Registry: "{name}-{type}".
func (c *LabConfig) Key() string {
	return c.Name + "-" + string(c.Type)
}

// Prepare fills Units and Headers from Analytes and Mappings when unset and
// rewrites mapping targets to canonical field keys.
func (c *LabConfig) Prepare() {
	for col, keys := range c.Mappings {
		canon := make([]string, 0, len(keys))
		for _, k := range keys {
			canon = append(canon, CanonicalField(k))
		}
		c.Mappings[col] = canon
	}

	if c.Units == nil {
		c.Units = make(map[string]string, len(c.Analytes))
		for col, a := range c.Analytes {
			if a.ValueUnit != "" {
				c.Units[col] = a.ValueUnit
			}
		}
	}

	if len(c.Headers) == 0 {
		seen := make(map[string]bool, len(c.Analytes)+len(c.Mappings))
		for col := range c.Analytes {
			seen[col] = true
		}
		for col := range c.Mappings {
			seen[col] = true
		}
		for col := range c.Units {
			seen[col] = true
		}
		c.Headers = make([]string, 0, len(seen))
		for col := range seen {
			c.Headers = append(c.Headers, col)
		}
		sort.Strings(c.Headers)
	}
}

// typeFor resolves the lab type for a row.
func (c *LabConfig) typeFor(row Row) LabType {
	if c == nil {
		return ""
	}
	if c.TypeFunc != nil {
		if t := c.TypeFunc(row); t != "" {
			return t
		}
	}
	return c.Type
}

// columnsFor returns the columns mapped to the canonical field key, sorted.
func (c *LabConfig) columnsFor(key string) []string {
	if c == nil {
		return nil
	}
	var cols []string
	for col, keys := range c.Mappings {
		for _, k := range keys {
			if k == key {
				cols = append(cols, col)
				break
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// ColumnHeader is a parsed column name.
type ColumnHeader struct {
	Original       string
	Element        string
	ModusTestID    string
	Units          string
	UnitsOverride  string
	NutrientResult NutrientResult
	// Known reports whether the lab config defines an analyte for Element.
	Known bool
}
