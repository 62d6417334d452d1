package core

// errors.go defines the conversion error taxonomy.
//
// Warnings never stop a conversion; they are collected on the Result.
// MissingDateColumnError drops one sheet and SchemaValidationError drops one
// date group. Only ErrUnreadableWorkbook fails a whole file.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnreadableWorkbook is returned when the uploaded bytes are not a
// spreadsheet the reader understands.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// ErrEmptyWorkbook is returned when a workbook has no data sheets at all.
var ErrEmptyWorkbook = errors.New("empty workbook: no data sheets")

// ConfigNotFoundWarning reports that no lab config was selected. Lab is the
// requested key when an explicit selection missed.
type ConfigNotFoundWarning struct {
	Lab        string
	Improvised bool
}

func (w *ConfigNotFoundWarning) Error() string {
	var b strings.Builder
	if w.Lab != "" {
		fmt.Fprintf(&b, "lab config not found: %q", w.Lab)
	} else {
		b.WriteString("lab config not found: no registered lab matches the sheet columns")
	}
	if w.Improvised {
		b.WriteString("; using an improvised config")
	}
	return b.String()
}

// MissingDateColumnError means a sheet has no column to group rows by date.
type MissingDateColumnError struct {
	Sheet   string
	Columns []string
}

func (e *MissingDateColumnError) Error() string {
	return fmt.Sprintf("missing date column in sheet %q: no column containing 'date' among %d columns",
		e.Sheet, len(e.Columns))
}

// DepthInferenceWarning reports a soil row whose depth fell back to the
// default.
type DepthInferenceWarning struct {
	Sheet string
	Row   int
	Depth Depth
}

func (w *DepthInferenceWarning) Error() string {
	return fmt.Sprintf("depth inference: sheet %q row %d has no depth information, using %q",
		w.Sheet, w.Row, w.Depth.Name)
}

// UnitConversionWarning reports a result whose unit could not be converted.
// The original value and unit are kept.
type UnitConversionWarning struct {
	Element string
	From    string
	To      string
	Err     error
}

func (w UnitConversionWarning) Error() string {
	if w.To == "" {
		return fmt.Sprintf("unit conversion: %s: unit %q: %v", w.Element, w.From, w.Err)
	}
	return fmt.Sprintf("unit conversion: %s: %q to %q: %v", w.Element, w.From, w.To, w.Err)
}

func (w UnitConversionWarning) Unwrap() error { return w.Err }

// SchemaValidationError means the Event built from one date group of a
// sheet did not validate.
type SchemaValidationError struct {
	Sheet     string
	GroupDate string
	Fields    []ValidationError
}

func (e *SchemaValidationError) Error() string {
	msg := fmt.Sprintf("Could not construct a valid ModusResult from sheet %s, group date %s", e.Sheet, e.GroupDate)
	if len(e.Fields) == 0 {
		return msg
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return msg + ": " + strings.Join(parts, "; ")
}
