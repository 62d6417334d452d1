package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/JonMunkholm/labnorm/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText strips a UTF-8 BOM and decodes non-UTF-8 input as
// Windows-1252, the encoding Excel on Windows saves CSV in.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	return charmap.Windows1252.NewDecoder().Bytes(data)
}

func readCSV(name string, data []byte) (core.Workbook, error) {
	data, err := decodeText(data)
	if err != nil {
		return core.Workbook{}, fmt.Errorf("%s: %w: %v", name, core.ErrUnreadableWorkbook, err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = sniffComma(data)

	records, err := r.ReadAll()
	if err != nil {
		return core.Workbook{}, fmt.Errorf("%s: %w: %v", name, core.ErrUnreadableWorkbook, err)
	}

	recs := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		recs[i] = row
	}

	return core.Workbook{
		Name:   name,
		Sheets: []core.Sheet{table(sheetName(name), recs)},
	}, nil
}

// sheetName names the single sheet of a CSV after the file.
func sheetName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		return "Sheet1"
	}
	return base
}

// sniffComma picks tab over comma when the first line has more tabs.
func sniffComma(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) {
		return '\t'
	}
	return ','
}
