package core

// partition.go splits a workbook into data sheets and an optional
// point-metadata sheet, and strips marker rows from the data.
//
// Marker rows carry a cell that is exactly COMMENT or UNITS. Units rows
// declare per-column unit overrides that apply to the whole sheet.

import (
	"sort"
	"strings"
)

const (
	commentMarker = "COMMENT"
	unitsMarker   = "UNITS"
	pointMetaName = "POINTMETA"
	rawSheetToken = "raw"
	ghostPrefix   = "__EMPTY"
)

// DataSheet is a sheet of sample rows ready for conversion.
type DataSheet struct {
	Name          string
	Columns       []string
	Rows          []Row
	UnitOverrides map[string]string
}

// Partition is the result of PartitionWorkbook.
type Partition struct {
	DataSheets []DataSheet
	// PointMetaSheet is the name of the point-metadata sheet, if any.
	PointMetaSheet string
	// PointMetaRows have keys in normalizeKey form.
	PointMetaRows []Row
}

// IsPointMetaSheet reports whether a sheet name marks point metadata,
// e.g. "Point Meta-Data" or "pointmeta".
func IsPointMetaSheet(name string) bool {
	return strings.Contains(normalizeKey(name), pointMetaName)
}

// PartitionWorkbook separates data sheets from point metadata. It never
// fails; a workbook with nothing usable yields an empty Partition.
func PartitionWorkbook(wb Workbook) Partition {
	var p Partition

	for _, sh := range wb.Sheets {
		if !IsPointMetaSheet(sh.Name) {
			continue
		}
		p.PointMetaSheet = sh.Name
		for _, r := range sh.Rows {
			nr := make(Row, len(r))
			for k, v := range r {
				nr[normalizeKey(k)] = v
			}
			p.PointMetaRows = append(p.PointMetaRows, nr)
		}
		break
	}

	for _, sh := range dataSheetCandidates(wb.Sheets) {
		p.DataSheets = append(p.DataSheets, partitionSheet(sh))
	}
	return p
}

// dataSheetCandidates applies the "raw" restriction and drops point
// metadata.
func dataSheetCandidates(sheets []Sheet) []Sheet {
	candidates := sheets
	if len(sheets) > 1 {
		var raw []Sheet
		for _, sh := range sheets {
			if strings.Contains(strings.ToLower(sh.Name), rawSheetToken) {
				raw = append(raw, sh)
			}
		}
		if len(raw) > 0 {
			candidates = raw
		}
	}

	out := make([]Sheet, 0, len(candidates))
	for _, sh := range candidates {
		if !IsPointMetaSheet(sh.Name) {
			out = append(out, sh)
		}
	}
	return out
}

func partitionSheet(sh Sheet) DataSheet {
	ds := DataSheet{
		Name:          sh.Name,
		UnitOverrides: make(map[string]string),
	}

	seen := make(map[string]bool)
	order := columnOrder(sh)

	for _, raw := range sh.Rows {
		row := cleanRow(raw)

		if hasMarker(row, unitsMarker) {
			for col, v := range row {
				s := cellString(v)
				if s == "" || s == unitsMarker {
					continue
				}
				ds.UnitOverrides[col] = s
			}
			continue
		}
		if hasMarker(row, commentMarker) || isEmptyRow(row) {
			continue
		}

		ds.Rows = append(ds.Rows, row)
		for col := range row {
			seen[col] = true
		}
	}

	for _, col := range order {
		if seen[col] {
			ds.Columns = append(ds.Columns, col)
			delete(seen, col)
		}
	}
	rest := make([]string, 0, len(seen))
	for col := range seen {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	ds.Columns = append(ds.Columns, rest...)

	return ds
}

// columnOrder returns the sheet's trimmed header order, if known.
func columnOrder(sh Sheet) []string {
	out := make([]string, 0, len(sh.Columns))
	for _, c := range sh.Columns {
		c = strings.TrimSpace(c)
		if c == "" || strings.HasPrefix(c, ghostPrefix) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// cleanRow drops ghost columns and trims column names.
func cleanRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		k = strings.TrimSpace(k)
		if k == "" || strings.HasPrefix(k, ghostPrefix) {
			continue
		}
		out[k] = v
	}
	return out
}

func hasMarker(row Row, marker string) bool {
	for _, v := range row {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == marker {
			return true
		}
	}
	return false
}

func isEmptyRow(row Row) bool {
	for _, v := range row {
		if !isEmptyCell(v) {
			return false
		}
	}
	return true
}

// IndexPointMeta keys point-metadata rows by sample id: the lab's mapped
// SampleNumber column, else POINTID, FMISSAMPLEID or SAMPLEID.
func (p Partition) IndexPointMeta(cfg *LabConfig) map[string]Row {
	if len(p.PointMetaRows) == 0 {
		return nil
	}
	idx := make(map[string]Row, len(p.PointMetaRows))
	for _, r := range p.PointMetaRows {
		id := firstNonEmpty(
			metaValue(r, FieldSampleNumber, cfg),
			cellString(r["POINTID"]),
			cellString(r["FMISSAMPLEID"]),
			cellString(r["SAMPLEID"]),
		)
		if id == "" {
			continue
		}
		idx[id] = r
	}
	return idx
}
