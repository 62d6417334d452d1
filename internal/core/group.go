package core

// group.go splits a sheet's rows into dated groups. Each group becomes one
// Event.

import (
	"log/slog"
	"strings"
)

// UnknownDate is the group date of rows whose date cell reads "NA".
const UnknownDate = "Unknown Date"

const notAvailable = "NA"

// DateGroup is the rows of one sheet sharing a date. Ordinal is 1-based in
// order of first appearance. Lines holds the 1-based position of each row
// among the sheet's data rows.
type DateGroup struct {
	Date    string
	Ordinal int
	Rows    []Row
	Lines   []int
}

type dateColumnSource struct {
	name string
	find func(columns []string, cfg *LabConfig) string
}

// dateColumnSources is the precedence order for a sheet's date column.
var dateColumnSources = []dateColumnSource{
	{"literal", func(columns []string, _ *LabConfig) string {
		for _, c := range columns {
			if c == FieldEventDate {
				return c
			}
		}
		return ""
	}},
	{"mappedReportDate", func(columns []string, cfg *LabConfig) string {
		return firstPresent(cfg.columnsFor(FieldReportDate), columns)
	}},
	{"containsDate", func(columns []string, _ *LabConfig) string {
		for _, c := range columns {
			if strings.Contains(strings.ToUpper(c), "DATE") {
				return c
			}
		}
		return ""
	}},
}

func firstPresent(candidates, columns []string) string {
	for _, want := range candidates {
		for _, c := range columns {
			if c == want {
				return c
			}
		}
	}
	return ""
}

// DateColumn picks the column a sheet's rows are grouped by: a literal
// EventDate column, then the column mapped to ReportDate, then the first
// column containing "DATE".
func DateColumn(sheet string, columns []string, cfg *LabConfig, logger *slog.Logger) (string, error) {
	for _, src := range dateColumnSources {
		if col := src.find(columns, cfg); col != "" {
			orDefault(logger).Debug("date column resolved", "sheet", sheet, "column", col, "source", src.name)
			return col, nil
		}
	}
	return "", &MissingDateColumnError{Sheet: sheet, Columns: columns}
}

// GroupRows groups rows by the normalized date in dateCol, keeping the order
// in which dates first appear. Rows whose date does not parse are dropped.
func GroupRows(sheet string, rows []Row, dateCol string, logger *slog.Logger) []DateGroup {
	logger = orDefault(logger)

	var groups []DateGroup
	index := make(map[string]int)

	for i, row := range rows {
		date, ok := rowDate(row[dateCol])
		if !ok {
			logger.Warn("dropping row with unparseable date",
				"sheet", sheet,
				"row", i+1,
				"column", dateCol,
				"value", cellString(row[dateCol]),
			)
			continue
		}

		gi, exists := index[date]
		if !exists {
			gi = len(groups)
			index[date] = gi
			groups = append(groups, DateGroup{Date: date, Ordinal: gi + 1})
		}
		groups[gi].Rows = append(groups[gi].Rows, row)
		groups[gi].Lines = append(groups[gi].Lines, i+1)
	}
	return groups
}

func rowDate(v any) (string, bool) {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == notAvailable {
		return UnknownDate, true
	}
	return ParseDateCell(v)
}
