package workbook

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/labnorm/internal/core"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name    string
		head    []byte
		want    Kind
		wantErr bool
	}{
		{"report.xlsx", nil, KindXLSX, false},
		{"REPORT.XLSM", nil, KindXLSX, false},
		{"report.csv", nil, KindCSV, false},
		{"report.txt", nil, KindCSV, false},
		{"report.xls", []byte("PK\x03\x04"), "", true},
		{"upload", []byte("PK\x03\x04rest"), KindXLSX, false},
		{"upload", []byte("Sample,K\n1,2\n"), KindCSV, false},
		{"upload", []byte{0x00, 0x01}, "", true},
		{"upload", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+string(tt.want), func(t *testing.T) {
			got, err := DetectKind(tt.name, tt.head)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Fatalf("DetectKind() error = %v, want ErrUnsupportedType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectKind() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadBytes_CSV(t *testing.T) {
	data := "\xEF\xBB\xBFSample ID,Date Recd,K,K,\n" +
		"S1,04/01/2021,161,7,x\n" +
		",,,,\n" +
		"S2,04/01/2021,, 9 ,\n"

	wb, err := ReadBytes("uploads/west lab.csv", []byte(data))
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if wb.Name != "uploads/west lab.csv" {
		t.Errorf("Name = %q", wb.Name)
	}
	if len(wb.Sheets) != 1 {
		t.Fatalf("sheets = %d, want 1", len(wb.Sheets))
	}
	sh := wb.Sheets[0]
	if sh.Name != "west lab" {
		t.Errorf("sheet name = %q, want %q", sh.Name, "west lab")
	}

	wantCols := []string{"Sample ID", "Date Recd", "K", "K_1", "__EMPTY"}
	if !reflect.DeepEqual(sh.Columns, wantCols) {
		t.Errorf("Columns = %q, want %q", sh.Columns, wantCols)
	}

	wantRows := []core.Row{
		{"Sample ID": "S1", "Date Recd": "04/01/2021", "K": "161", "K_1": "7", "__EMPTY": "x"},
		{"Sample ID": "S2", "Date Recd": "04/01/2021", "K_1": " 9 "},
	}
	if !reflect.DeepEqual(sh.Rows, wantRows) {
		t.Errorf("Rows = %v, want %v", sh.Rows, wantRows)
	}
}

func TestReadBytes_CSVWindows1252(t *testing.T) {
	data := []byte("Sample ID,Notes\nS1,caf\xe9 \xb5g\n")

	wb, err := ReadBytes("legacy.csv", data)
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if got := wb.Sheets[0].Rows[0]["Notes"]; got != "café µg" {
		t.Errorf("Notes = %q, want %q", got, "café µg")
	}
}

func TestReadBytes_TabSeparated(t *testing.T) {
	data := []byte("Sample ID\tpH\nS1\t6.5\n")

	wb, err := ReadBytes("export.txt", data)
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	sh := wb.Sheets[0]
	if !reflect.DeepEqual(sh.Columns, []string{"Sample ID", "pH"}) {
		t.Errorf("Columns = %q", sh.Columns)
	}
	if sh.Rows[0]["pH"] != "6.5" {
		t.Errorf("pH = %v, want 6.5", sh.Rows[0]["pH"])
	}
}

func TestReadBytes_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want error
	}{
		{"legacy excel", "old.xls", []byte("\xD0\xCF\x11\xE0"), ErrUnsupportedType},
		{"corrupt xlsx", "broken.xlsx", []byte("PK\x03\x04not really a zip"), core.ErrUnreadableWorkbook},
		{"binary blob", "blob", []byte{0x00, 0xFF}, ErrUnsupportedType},
		{"empty csv", "empty.csv", nil, core.ErrEmptyWorkbook},
		{"blank lines only", "blank.csv", []byte("\n,,\n\n"), core.ErrEmptyWorkbook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBytes(tt.file, tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadBytes() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTypedCell(t *testing.T) {
	tests := []struct {
		shown string
		raw   string
		want  any
	}{
		{"161", "161", 161.0},
		{"0.50", "0.5", 0.5},
		{"43101", "43101", 43101.0},
		{"2021-04-01", "44287", time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"<0.1", "<0.1", "<0.1"},
		{"S-101", "S-101", "S-101"},
		{"", "", ""},
	}

	for _, tt := range tests {
		got := typedCell(tt.shown, tt.raw)
		if want, ok := tt.want.(time.Time); ok {
			if gt, ok := got.(time.Time); !ok || !gt.Equal(want) {
				t.Errorf("typedCell(%q, %q) = %#v, want %v", tt.shown, tt.raw, got, want)
			}
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("typedCell(%q, %q) = %#v, want %#v", tt.shown, tt.raw, got, tt.want)
		}
	}
}

func TestReadBytes_XLSXDateCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	iso := "yyyy-mm-dd"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &iso})
	if err != nil {
		t.Fatal(err)
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(f.SetCellValue("Sheet1", "A1", "Sample ID"))
	must(f.SetCellValue("Sheet1", "B1", "Date Recd"))
	must(f.SetCellValue("Sheet1", "C1", "K"))
	must(f.SetCellValue("Sheet1", "A2", "S1"))
	must(f.SetCellFloat("Sheet1", "B2", 44287, -1, 64))
	must(f.SetCellStyle("Sheet1", "B2", "B2", style))
	must(f.SetCellFloat("Sheet1", "C2", 161, -1, 64))

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	wb, err := ReadBytes("dated.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	row := wb.Sheets[0].Rows[0]
	date, ok := row["Date Recd"].(time.Time)
	if !ok {
		t.Fatalf("Date Recd = %#v, want time.Time", row["Date Recd"])
	}
	if got := date.Format("2006-01-02"); got != "2021-04-01" {
		t.Errorf("Date Recd = %s, want 2021-04-01", got)
	}
	if row["K"] != 161.0 {
		t.Errorf("K = %#v, want 161.0", row["K"])
	}
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	sheets := []core.Sheet{
		{
			Name:    "Results: 2021/04",
			Columns: []string{"SampleNumber", "K (S-K-NH4AC.05) [ppm]", "Notes"},
			Rows: []core.Row{
				{"SampleNumber": "S1", "K (S-K-NH4AC.05) [ppm]": 161.0, "Notes": "ok"},
				{"SampleNumber": "S2", "K (S-K-NH4AC.05) [ppm]": 8.5},
			},
		},
		{
			Name:    "Results: 2021/04",
			Columns: []string{"SampleNumber"},
			Rows:    []core.Row{{"SampleNumber": "S3"}},
		},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sheets...); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	wb, err := ReadBytes("export.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if len(wb.Sheets) != 2 {
		t.Fatalf("sheets = %d, want 2", len(wb.Sheets))
	}
	if wb.Sheets[0].Name != "Results_ 2021_04" || wb.Sheets[1].Name != "Results_ 2021_04 (2)" {
		t.Errorf("sheet names = %q, %q", wb.Sheets[0].Name, wb.Sheets[1].Name)
	}

	got := wb.Sheets[0]
	if !reflect.DeepEqual(got.Columns, sheets[0].Columns) {
		t.Errorf("Columns = %q, want %q", got.Columns, sheets[0].Columns)
	}
	if !reflect.DeepEqual(got.Rows, sheets[0].Rows) {
		t.Errorf("Rows = %v, want %v", got.Rows, sheets[0].Rows)
	}
	if wb.Sheets[1].Rows[0]["SampleNumber"] != "S3" {
		t.Errorf("second sheet rows = %v", wb.Sheets[1].Rows)
	}
}

func TestWriteCSV(t *testing.T) {
	sh := core.Sheet{
		Columns: []string{"EventDate", "Name", "K [ppm]", "Received"},
		Rows: []core.Row{
			{"EventDate": "2021-04-01", "Name": "Smith, J", "K [ppm]": 161.0, "Received": time.Date(2021, 4, 3, 0, 0, 0, 0, time.UTC)},
			{"EventDate": "2021-04-01", "K [ppm]": "<5"},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sh); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := strings.Join([]string{
		"EventDate,Name,K [ppm],Received",
		`2021-04-01,"Smith, J",161,2021-04-03`,
		"2021-04-01,,<5,",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestUniqueSheetName(t *testing.T) {
	used := make(map[string]bool)
	long := strings.Repeat("x", 40)

	tests := []struct {
		name string
		want string
	}{
		{"Soil", "Soil"},
		{"soil", "soil (2)"},
		{"", "Sheet3"},
		{"a[b]", "a(b)"},
		{long, strings.Repeat("x", 31)},
		{long, strings.Repeat("x", 27) + " (2)"},
	}
	for i, tt := range tests {
		if got := uniqueSheetName(tt.name, i, used); got != tt.want {
			t.Errorf("uniqueSheetName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCSVConvertsEndToEnd(t *testing.T) {
	data := "Sample ID,Date Recd,K [ppm]\nS1,04/01/2021,161\nS2,04/01/2021,140\n"

	wb, err := ReadBytes("lab.csv", []byte(data))
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	conv := core.NewConverter(core.NewRegistry())
	res, err := conv.Convert(t.Context(), wb, core.ConvertOptions{DisableImprovise: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	events := res.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1 (errors %v)", len(events), res.Errors)
	}
	if got := events[0].EventMetaData.EventDate; got != "2021-04-01" {
		t.Errorf("EventDate = %q, want 2021-04-01", got)
	}
	samples := events[0].EventSamples.Soil.SoilSamples
	if len(samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(samples))
	}
	nr := samples[0].Depths[0].NutrientResults[0]
	if nr.Element != "K" || nr.ValueUnit != "ppm" || nr.Value.String() != "161" {
		t.Errorf("result = %+v, want K 161 ppm", nr)
	}
}
