package core

import (
	"reflect"
	"testing"
)

func TestIsPointMetaSheet(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Point Meta-Data", true},
		{"point_meta", true},
		{"POINTMETA", true},
		{"Sheet1", false},
		{"Points", false},
	}
	for _, tt := range tests {
		if got := IsPointMetaSheet(tt.name); got != tt.want {
			t.Errorf("IsPointMetaSheet(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPartitionWorkbook_FiltersMarkerRows(t *testing.T) {
	wb := Workbook{Sheets: []Sheet{{
		Name:    "Results",
		Columns: []string{"Sample ID", " K ", "__EMPTY_1", "Date"},
		Rows: []Row{
			{"Sample ID": "UNITS", " K ": "ppm", "Date": ""},
			{"Sample ID": "COMMENT", " K ": "lab note"},
			{"Sample ID": "1", " K ": 161.0, "Date": "2020-01-01", "__EMPTY_1": "x"},
			{"Sample ID": "", " K ": nil},
			{"Sample ID": "2", "Date": "2020-01-01", "Extra": "y"},
		},
	}}}

	p := PartitionWorkbook(wb)
	if len(p.DataSheets) != 1 {
		t.Fatalf("DataSheets = %d, want 1", len(p.DataSheets))
	}
	ds := p.DataSheets[0]

	if len(ds.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(ds.Rows))
	}
	if _, ghost := ds.Rows[0]["__EMPTY_1"]; ghost {
		t.Error("ghost column survived")
	}
	if got := ds.Rows[0]["K"]; got != 161.0 {
		t.Errorf("trimmed column K = %v, want 161", got)
	}

	wantCols := []string{"Sample ID", "K", "Date", "Extra"}
	if !reflect.DeepEqual(ds.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", ds.Columns, wantCols)
	}

	wantOverrides := map[string]string{"K": "ppm"}
	if !reflect.DeepEqual(ds.UnitOverrides, wantOverrides) {
		t.Errorf("UnitOverrides = %v, want %v", ds.UnitOverrides, wantOverrides)
	}
}

func TestPartitionWorkbook_RawSheets(t *testing.T) {
	wb := Workbook{Sheets: []Sheet{
		{Name: "Summary", Rows: []Row{{"a": "1"}}},
		{Name: "Raw Data", Rows: []Row{{"a": "2"}}},
		{Name: "Point Meta", Rows: []Row{{"Point ID": "1", "Latitude": "40.1"}}},
	}}

	p := PartitionWorkbook(wb)
	if len(p.DataSheets) != 1 || p.DataSheets[0].Name != "Raw Data" {
		t.Fatalf("DataSheets = %+v, want only Raw Data", p.DataSheets)
	}
	if p.PointMetaSheet != "Point Meta" {
		t.Errorf("PointMetaSheet = %q, want Point Meta", p.PointMetaSheet)
	}
	if got := p.PointMetaRows[0]["POINTID"]; got != "1" {
		t.Errorf("normalized point meta POINTID = %v, want 1", got)
	}
}

func TestPartitionWorkbook_SingleRawSheetIsNotSpecial(t *testing.T) {
	wb := Workbook{Sheets: []Sheet{{Name: "raw", Rows: []Row{{"a": "1"}}}}}
	p := PartitionWorkbook(wb)
	if len(p.DataSheets) != 1 {
		t.Errorf("DataSheets = %d, want 1", len(p.DataSheets))
	}
}

func TestPartitionWorkbook_Empty(t *testing.T) {
	p := PartitionWorkbook(Workbook{})
	if len(p.DataSheets) != 0 || p.PointMetaRows != nil {
		t.Errorf("PartitionWorkbook(empty) = %+v, want empty", p)
	}
}

func TestIndexPointMeta(t *testing.T) {
	p := Partition{PointMetaRows: []Row{
		{"POINTID": "A1", "LATITUDE": "40"},
		{"FMISSAMPLEID": "B2"},
		{"SAMPLEID": "C3"},
		{"NOTE": "no id"},
	}}
	idx := p.IndexPointMeta(nil)
	for _, id := range []string{"A1", "B2", "C3"} {
		if _, ok := idx[id]; !ok {
			t.Errorf("IndexPointMeta missing %q", id)
		}
	}
	if len(idx) != 3 {
		t.Errorf("IndexPointMeta size = %d, want 3", len(idx))
	}
}
