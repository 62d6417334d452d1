package core

// depth.go resolves the sampling depth of a soil row and de-duplicates
// depths within an Event.
//
// Each depth property is taken from the first source that knows it, in the
// order of depthSources. Units follow depthUnitSources.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultDepthUnit = "cm"
	unknownDepthName = "Unknown Depth"
)

// DepthRefs registers the distinct depths of one Event. The zero value is
// ready to use. Not safe for concurrent use; each Event owns its own.
type DepthRefs struct {
	refs []DepthRef
}

// Ensure returns the DepthID of a structurally equal depth, appending the
// depth with the next id when none exists.
func (d *DepthRefs) Ensure(depth Depth) int {
	for _, ref := range d.refs {
		if ref.Depth == depth {
			return ref.DepthID
		}
	}
	id := len(d.refs) + 1
	d.refs = append(d.refs, DepthRef{DepthID: id, Depth: depth})
	return id
}

// Refs returns the registered depths in id order.
func (d *DepthRefs) Refs() []DepthRef {
	out := make([]DepthRef, len(d.refs))
	copy(out, d.refs)
	return out
}

// Len returns the number of distinct depths.
func (d *DepthRefs) Len() int { return len(d.refs) }

// depthInput is what depth sources read from.
type depthInput struct {
	row       Row
	cfg       *LabConfig
	overrides map[string]string
	cells     map[string]string // Top/Bottom/ColumnDepth field -> column
	hint      DepthHint
	hasHint   bool
}

// depthReading is a partial depth; nil fields are unknown.
type depthReading struct {
	start, end, column *float64
	unit               string
}

type depthSource struct {
	name string
	read func(depthInput) depthReading
}

// depthSources is the precedence order for depth values.
var depthSources = []depthSource{
	{"columns", depthFromColumns},
	{"range", depthFromRangeCell},
	{"depthInfo", depthFromHint},
}

type depthUnitSource struct {
	name string
	read func(depthInput, depthReading) string
}

// depthUnitSources is the precedence order for the depth unit.
var depthUnitSources = []depthUnitSource{
	{"override", unitFromColumnOverrides},
	{"range", func(_ depthInput, r depthReading) string { return r.unit }},
	{"mapped", func(in depthInput, _ depthReading) string {
		return FieldValue(in.row, FieldDepthUnits, in.cfg)
	}},
	{"depthInfo", func(in depthInput, _ depthReading) string { return in.hint.DepthUnit }},
	{"default", func(depthInput, depthReading) string { return defaultDepthUnit }},
}

var depthFields = []string{FieldTop, FieldBottom, FieldColumnDepth}

// ExtractDepth resolves the depth of a row. It reports false when no source
// knew anything and the default depth was used.
func ExtractDepth(row Row, cfg *LabConfig, overrides map[string]string) (Depth, bool) {
	in := depthInput{
		row:       row,
		cfg:       cfg,
		overrides: overrides,
		cells:     make(map[string]string, len(depthFields)),
	}
	for _, f := range depthFields {
		if col, ok := FieldColumn(row, f, cfg); ok {
			in.cells[f] = col
		}
	}
	if cfg != nil {
		in.hint, in.hasHint = cfg.DepthInfo.Hint(row)
	}

	var merged depthReading
	found := false
	for _, src := range depthSources {
		r := src.read(in)
		if merged.start == nil && r.start != nil {
			merged.start, found = r.start, true
		}
		if merged.end == nil && r.end != nil {
			merged.end, found = r.end, true
		}
		if merged.column == nil && r.column != nil {
			merged.column, found = r.column, true
		}
		if merged.unit == "" && r.unit != "" {
			merged.unit = r.unit
		}
	}

	d := Depth{}
	if merged.start != nil {
		d.StartingDepth = *merged.start
	}
	d.EndingDepth = d.StartingDepth
	if merged.end != nil {
		d.EndingDepth = *merged.end
	}
	d.ColumnDepth = math.Abs(d.EndingDepth - d.StartingDepth)
	if merged.column != nil {
		d.ColumnDepth = *merged.column
	}

	for _, src := range depthUnitSources {
		if u := strings.TrimSpace(src.read(in, merged)); u != "" {
			d.DepthUnit = u
			break
		}
	}

	d.Name = firstNonEmpty(
		FieldValue(row, FieldDepthName, cfg),
		in.hint.Name,
	)
	if d.Name == "" {
		if d.EndingDepth == 0 {
			d.Name = unknownDepthName
		} else {
			d.Name = fmt.Sprintf("%s to %s %s", formatDepth(d.StartingDepth), formatDepth(d.EndingDepth), d.DepthUnit)
		}
	}

	return d, found || in.hasHint
}

func formatDepth(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func depthFromColumns(in depthInput) depthReading {
	var r depthReading
	num := func(field string) *float64 {
		col, ok := in.cells[field]
		if !ok {
			return nil
		}
		if f, ok := ToNumber(in.row[col]); ok {
			return &f
		}
		return nil
	}
	r.start = num(FieldTop)
	r.end = num(FieldBottom)
	r.column = num(FieldColumnDepth)
	return r
}

// rangeSeparators split a single cell such as "0 to 8 in" or "6 - 12".
var rangeSeparators = []string{" to ", " - "}

// depthUnitTokens are sniffed from the second half of a range cell.
var depthUnitTokens = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`(?i)\bcm\b|\dcm\b`), "cm"},
	{regexp.MustCompile(`(?i)\bmm\b|\dmm\b`), "mm"},
	{regexp.MustCompile(`(?i)\bin(ch|ches)?\b|\din\b|"`), "in"},
}

// depthFromRangeCell parses a range written in one cell. It only applies
// when no numeric ColumnDepth cell exists.
func depthFromRangeCell(in depthInput) depthReading {
	if col, ok := in.cells[FieldColumnDepth]; ok {
		if _, numeric := ToNumber(in.row[col]); numeric {
			return depthReading{}
		}
	}

	for _, sep := range rangeSeparators {
		for _, col := range rangeCandidates(in) {
			s, ok := in.row[col].(string)
			if !ok || !strings.Contains(s, sep) {
				continue
			}
			return parseDepthRange(s, sep)
		}
	}
	return depthReading{}
}

// rangeCandidates lists the depth cells a range may be written in: the
// mapped depth columns, then any column whose name mentions depth.
func rangeCandidates(in depthInput) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, f := range depthFields {
		if col, ok := in.cells[f]; ok && !seen[col] {
			cols = append(cols, col)
			seen[col] = true
		}
	}
	for _, col := range sortedKeys(in.row) {
		if !seen[col] && strings.Contains(strings.ToLower(col), "depth") {
			cols = append(cols, col)
			seen[col] = true
		}
	}
	return cols
}

func parseDepthRange(s, sep string) depthReading {
	pieces := strings.SplitN(s, sep, 2)
	start, _ := leadingInt(pieces[0])
	end := 0.0
	unit := ""
	if len(pieces) > 1 {
		end, _ = leadingInt(pieces[1])
		for _, tok := range depthUnitTokens {
			if tok.re.MatchString(pieces[1]) {
				unit = tok.unit
				break
			}
		}
	}
	column := end - start
	return depthReading{start: &start, end: &end, column: &column, unit: unit}
}

func depthFromHint(in depthInput) depthReading {
	if !in.hasHint {
		return depthReading{}
	}
	return depthReading{
		start:  in.hint.StartingDepth,
		end:    in.hint.EndingDepth,
		column: in.hint.ColumnDepth,
	}
}

// unitFromColumnOverrides returns the unit declared for a depth column by
// the sheet's UNITS row, then by the column's own header.
func unitFromColumnOverrides(in depthInput, _ depthReading) string {
	for _, f := range depthFields {
		if col, ok := in.cells[f]; ok {
			if u := in.overrides[col]; u != "" {
				return u
			}
		}
	}
	for _, f := range depthFields {
		if col, ok := in.cells[f]; ok {
			if u := ParseHeader(col, nil).Units; u != "" {
				return u
			}
		}
	}
	return ""
}
