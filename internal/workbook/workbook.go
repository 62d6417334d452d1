// Package workbook reads lab exports into core.Workbooks and writes
// converted results back out.
//
// XLSX files are read with excelize, CSV files with encoding/csv. Each sheet's
// first non-empty row is its header. Blank header cells become "__EMPTY",
// "__EMPTY_1", ... and repeated headers get a "_1", "_2" suffix, so every
// cell of a row keeps a distinct key.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/labnorm/internal/core"
)

// ErrUnsupportedType is returned for files that are neither XLSX nor CSV.
var ErrUnsupportedType = errors.New("unsupported file type")

// Kind is a supported input format.
type Kind string

const (
	KindXLSX Kind = "xlsx"
	KindCSV  Kind = "csv"
)

var zipMagic = []byte("PK\x03\x04")

// DetectKind picks the format from the file extension, falling back to
// sniffing the first bytes.
func DetectKind(name string, head []byte) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".csv", ".txt":
		return KindCSV, nil
	case ".xls", ".ods", ".numbers":
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedType)
	}
	if bytes.HasPrefix(head, zipMagic) {
		return KindXLSX, nil
	}
	if len(head) > 0 && !bytes.ContainsRune(head, 0) {
		return KindCSV, nil
	}
	return "", fmt.Errorf("%s: %w", name, ErrUnsupportedType)
}

// Read reads a whole workbook. name is used for type detection and becomes
// the workbook name.
func Read(name string, r io.Reader) (core.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Workbook{}, fmt.Errorf("read %s: %w", name, err)
	}
	return ReadBytes(name, data)
}

// ReadBytes is Read over data already in memory. A workbook without a
// single header row is core.ErrEmptyWorkbook.
func ReadBytes(name string, data []byte) (core.Workbook, error) {
	kind, err := DetectKind(name, data[:min(len(data), 512)])
	if err != nil {
		return core.Workbook{}, err
	}
	var wb core.Workbook
	switch kind {
	case KindXLSX:
		wb, err = readXLSX(name, data)
	default:
		wb, err = readCSV(name, data)
	}
	if err != nil {
		return core.Workbook{}, err
	}
	for _, sh := range wb.Sheets {
		if len(sh.Columns) > 0 {
			return wb, nil
		}
	}
	return core.Workbook{}, fmt.Errorf("%s: %w", name, core.ErrEmptyWorkbook)
}

// table turns raw records into a core.Sheet. Records before the header row
// are dropped, as are fully empty records.
func table(name string, records [][]any) core.Sheet {
	sh := core.Sheet{Name: name}

	hdr := -1
	for i, rec := range records {
		if !emptyRecord(rec) {
			hdr = i
			break
		}
	}
	if hdr < 0 {
		return sh
	}

	sh.Columns = headerNames(records[hdr])
	for _, rec := range records[hdr+1:] {
		if emptyRecord(rec) {
			continue
		}
		row := make(core.Row, len(rec))
		for i, v := range rec {
			if i >= len(sh.Columns) || blank(v) {
				continue
			}
			row[sh.Columns[i]] = v
		}
		sh.Rows = append(sh.Rows, row)
	}
	return sh
}

const emptyHeader = "__EMPTY"

func headerNames(rec []any) []string {
	names := make([]string, len(rec))
	seen := make(map[string]int, len(rec))
	empties := 0

	for i, v := range rec {
		name := strings.TrimSpace(text(v))
		if name == "" {
			name = emptyHeader
			if empties > 0 {
				name += "_" + strconv.Itoa(empties)
			}
			empties++
		} else if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name += "_" + strconv.Itoa(n)
		}
		seen[name]++
		names[i] = name
	}
	return names
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func blank(v any) bool {
	s, ok := v.(string)
	return v == nil || ok && strings.TrimSpace(s) == ""
}

func emptyRecord(rec []any) bool {
	for _, v := range rec {
		if !blank(v) {
			return false
		}
	}
	return true
}
