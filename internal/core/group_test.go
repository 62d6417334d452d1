package core

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestDateColumn_Precedence(t *testing.T) {
	cfg := &LabConfig{
		Name: "Lab",
		Type: LabSoil,
		Mappings: Mappings{
			"Date Recd": {FieldEventDate},
			"Date Rept": {FieldReportDate},
		},
	}
	cfg.Prepare()

	// Kuo maps Date to ReceivedDate and SampleDate to EventDate.
	kuo := &LabConfig{
		Name: "Kuo",
		Type: LabSoil,
		Mappings: Mappings{
			"Date":       {FieldReceivedDate},
			"SampleDate": {FieldEventDate},
		},
	}
	kuo.Prepare()

	tests := []struct {
		name    string
		columns []string
		cfg     *LabConfig
		want    string
	}{
		{"literal EventDate wins", []string{"Date Recd", "EventDate"}, cfg, "EventDate"},
		{"mapped ReportDate beats mapped EventDate", []string{"Date Recd", "Date Rept"}, cfg, "Date Rept"},
		{"mapped ReportDate", []string{"Sample", "Date Rept"}, cfg, "Date Rept"},
		{"mapped EventDate is not a source", []string{"Date", "SampleDate"}, kuo, "Date"},
		{"first column containing date", []string{"Sample", "update_time", "Date"}, nil, "update_time"},
		{"no date column", []string{"sampled", "K"}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DateColumn("Sheet1", tt.columns, tt.cfg, nil)
			if tt.want == "" {
				var missing *MissingDateColumnError
				if !errors.As(err, &missing) {
					t.Fatalf("DateColumn() err = %v, want MissingDateColumnError", err)
				}
				if missing.Sheet != "Sheet1" {
					t.Errorf("MissingDateColumnError.Sheet = %q, want Sheet1", missing.Sheet)
				}
				return
			}
			if err != nil {
				t.Fatalf("DateColumn() err = %v", err)
			}
			if got != tt.want {
				t.Errorf("DateColumn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateColumn_UsesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := DateColumn("Sheet1", []string{"EventDate"}, nil, logger); err != nil {
		t.Fatalf("DateColumn() err = %v", err)
	}
	if !strings.Contains(buf.String(), "date column resolved") {
		t.Errorf("log output = %q, want date column trace", buf.String())
	}
}

func TestGroupRows(t *testing.T) {
	rows := []Row{
		{"Date": "2020-01-01", "id": "1"},
		{"Date": "1/1/2020", "id": "2"},
		{"Date": "NA", "id": "3"},
		{"Date": "garbage", "id": "4"},
		{"Date": 43832.0, "id": "5"},
		{"Date": "2020-01-01", "id": "6"},
	}

	groups := GroupRows("Sheet1", rows, "Date", nil)

	want := []struct {
		date  string
		ids   []string
		lines []int
	}{
		{"2020-01-01", []string{"1", "2", "6"}, []int{1, 2, 6}},
		{UnknownDate, []string{"3"}, []int{3}},
		{"2020-01-02", []string{"5"}, []int{5}},
	}

	if len(groups) != len(want) {
		t.Fatalf("GroupRows() = %d groups, want %d", len(groups), len(want))
	}
	for i, w := range want {
		g := groups[i]
		if g.Date != w.date {
			t.Errorf("group %d Date = %q, want %q", i, g.Date, w.date)
		}
		if g.Ordinal != i+1 {
			t.Errorf("group %d Ordinal = %d, want %d", i, g.Ordinal, i+1)
		}
		if len(g.Rows) != len(w.ids) {
			t.Fatalf("group %d has %d rows, want %d", i, len(g.Rows), len(w.ids))
		}
		for j, id := range w.ids {
			if g.Rows[j]["id"] != id {
				t.Errorf("group %d row %d id = %v, want %s", i, j, g.Rows[j]["id"], id)
			}
			if g.Lines[j] != w.lines[j] {
				t.Errorf("group %d row %d line = %d, want %d", i, j, g.Lines[j], w.lines[j])
			}
		}
	}
}
