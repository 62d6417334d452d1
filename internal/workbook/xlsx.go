package workbook

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/labnorm/internal/core"
)

// unzipLimit caps the decompressed size of an uploaded XLSX.
const unzipLimit = 256 << 20

func readXLSX(name string, data []byte) (core.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{UnzipSizeLimit: unzipLimit})
	if err != nil {
		return core.Workbook{}, fmt.Errorf("%s: %w: %v", name, core.ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	wb := core.Workbook{Name: name}
	for _, sheet := range f.GetSheetList() {
		formatted, err := f.GetRows(sheet)
		if err != nil {
			return core.Workbook{}, fmt.Errorf("%s: sheet %q: %w: %v", name, sheet, core.ErrUnreadableWorkbook, err)
		}
		raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return core.Workbook{}, fmt.Errorf("%s: sheet %q: %w: %v", name, sheet, core.ErrUnreadableWorkbook, err)
		}
		wb.Sheets = append(wb.Sheets, table(sheet, typedRecords(formatted, raw)))
	}
	return wb, nil
}

// typedRecords merges the formatted and raw views of a sheet. Numeric
// cells become float64, and numeric cells displayed as dates become
// time.Time. Everything else keeps its displayed text.
func typedRecords(formatted, raw [][]string) [][]any {
	out := make([][]any, len(formatted))
	for r, frow := range formatted {
		rec := make([]any, len(frow))
		for c, shown := range frow {
			var rawVal string
			if r < len(raw) && c < len(raw[r]) {
				rawVal = raw[r][c]
			}
			rec[c] = typedCell(shown, rawVal)
		}
		out[r] = rec
	}
	return out
}

func typedCell(shown, raw string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return shown
	}
	if shown != raw && looksLikeDate(shown) {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t
		}
	}
	return f
}

// looksLikeDate reports whether a number format rendered a date.
func looksLikeDate(shown string) bool {
	if _, ok := core.ParseDate(shown); !ok {
		return false
	}
	return strings.ContainsAny(shown, "/-.") || strings.Contains(shown, " ")
}
