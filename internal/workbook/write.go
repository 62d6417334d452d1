package workbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/labnorm/internal/core"
)

const dateLayout = "2006-01-02"

// WriteCSV writes a sheet as CSV with a header row.
func WriteCSV(w io.Writer, sh core.Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sh.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(sh.Columns))
	for i, row := range sh.Rows {
		for j, col := range sh.Columns {
			rec[j] = exportText(row[col])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportText(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(dateLayout)
	}
	return text(v)
}

// WriteXLSX writes each sheet to its own worksheet.
func WriteXLSX(w io.Writer, sheets ...core.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	used := make(map[string]bool, len(sheets))
	for i, sh := range sheets {
		name := uniqueSheetName(sh.Name, i, used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, sh); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, sh core.Sheet) error {
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", name, err)
	}

	header := make([]any, len(sh.Columns))
	for i, c := range sh.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("sheet %q: header: %w", name, err)
	}

	for i, row := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := make([]any, len(sh.Columns))
		for j, col := range sh.Columns {
			vals[j] = row[col]
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return fmt.Errorf("sheet %q: row %d: %w", name, i+1, err)
		}
	}
	return sw.Flush()
}

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

func uniqueSheetName(name string, i int, used map[string]bool) string {
	name = strings.TrimSpace(sheetNameReplacer.Replace(name))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(base)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		name = string(r) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
