package core

// matcher.go selects the lab config for a workbook.
//
// Autodetect only accepts a config whose header vocabulary covers every
// column of the sheet. When nothing matches, Cobble improvises a config from
// the mappings and analytes of every registered lab.

import (
	"log/slog"
	"sort"
	"strings"
)

// ImprovisedLabName names configs built by Cobble.
const ImprovisedLabName = "automated"

// Autodetect returns the first registered config whose Headers contain
// every one of columns, or nil. A nil logger means slog.Default().
func Autodetect(reg *Registry, columns []string, sheet string, logger *slog.Logger) *LabConfig {
	if reg == nil || len(columns) == 0 {
		return nil
	}
	logger = orDefault(logger)

	var match *LabConfig
	for _, cfg := range reg.All() {
		if !coversColumns(cfg.Headers, columns) {
			continue
		}
		if match == nil {
			match = cfg
			continue
		}
		logger.Debug("lab config also matches, keeping first",
			"sheet", sheet, "lab", match.Key(), "other", cfg.Key())
	}
	if match != nil {
		logger.Info("lab config detected", "sheet", sheet, "lab", match.Key())
	}
	return match
}

func coversColumns(headers, columns []string) bool {
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	for _, c := range columns {
		if !known[c] {
			return false
		}
	}
	return true
}

// Cobble builds a best-effort config for columns from everything the
// registry knows. It never fails; a column it cannot place is left out of
// the config but stays in the row data.
func Cobble(reg *Registry, columns []string, logger *slog.Logger) *LabConfig {
	logger = orDefault(logger)
	cfg := &LabConfig{
		Name:     ImprovisedLabName,
		Type:     LabSoil,
		Mappings: make(Mappings),
		Analytes: make(map[string]NutrientResult),
		Headers:  append([]string(nil), columns...),
	}

	var known []*LabConfig
	if reg != nil {
		known = reg.All()
	}

	// 1. mappings
	for _, col := range columns {
		if keys := lookupMapping(known, col); len(keys) > 0 {
			cfg.Mappings[col] = keys
		}
	}

	// 2. date column
	if len(cfg.columnsFor(FieldEventDate)) == 0 {
		if col := guessDateColumn(columns); col != "" {
			cfg.Mappings[col] = append(cfg.Mappings[col], FieldEventDate)
		} else {
			logger.Warn("improvised lab config has no date column", "columns", len(columns))
		}
	}

	// 3. analytes
	index := analyteIndex(known)
	var unmatched []string
	for _, col := range columns {
		if _, mapped := cfg.Mappings[col]; mapped {
			continue
		}
		if el, ok := index[normalizeKey(col)]; ok {
			cfg.Analytes[col] = NutrientResult{Element: el}
			continue
		}
		if el, ok := index[normalizeKey(ParseHeader(col, nil).Element)]; ok {
			cfg.Analytes[col] = NutrientResult{Element: el}
			continue
		}
		unmatched = append(unmatched, col)
	}

	// 4. leftovers
	for _, col := range unmatched {
		logger.Debug("improvised lab config: unmatched column", "column", col)
	}

	cfg.Prepare()
	return cfg
}

// lookupMapping finds col among the mappings of known configs, comparing
// in normalizeKey form. Columns mapped to nothing are skipped.
func lookupMapping(known []*LabConfig, col string) []string {
	want := normalizeKey(col)
	for _, lab := range known {
		for _, src := range sortedMappingKeys(lab.Mappings) {
			keys := lab.Mappings[src]
			if len(keys) == 0 || normalizeKey(src) != want {
				continue
			}
			return append([]string(nil), keys...)
		}
	}
	return nil
}

func sortedMappingKeys(m Mappings) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// guessDateColumn prefers a DATESUB column (date submitted), then the first
// column in lexical order containing DATE.
func guessDateColumn(columns []string) string {
	sorted := append([]string(nil), columns...)
	sort.Strings(sorted)
	for _, col := range sorted {
		if strings.Contains(normalizeKey(col), "DATESUB") {
			return col
		}
	}
	for _, col := range sorted {
		if strings.Contains(strings.ToUpper(col), "DATE") {
			return col
		}
	}
	return ""
}

// analyteIndex maps normalized column names, CSV headers and elements of
// every known analyte to the element. Earlier labs win.
func analyteIndex(known []*LabConfig) map[string]string {
	idx := make(map[string]string)
	add := func(k, element string) {
		k = normalizeKey(k)
		if k == "" {
			return
		}
		if _, exists := idx[k]; !exists {
			idx[k] = element
		}
	}
	for _, lab := range known {
		cols := make([]string, 0, len(lab.Analytes))
		for col := range lab.Analytes {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			a := lab.Analytes[col]
			add(col, a.Element)
			add(a.CsvHeader, a.Element)
			add(a.Element, a.Element)
		}
	}
	return idx
}

// ResolveLab picks the config for a workbook: an explicit selection, then
// autodetection on each data sheet, then an improvised config. The returned
// error is a *ConfigNotFoundWarning and never fatal; cfg may be nil. A
// selection that misses falls through to autodetection.
func ResolveLab(reg *Registry, sheets []DataSheet, opts ConvertOptions, logger *slog.Logger) (*LabConfig, error) {
	logger = orDefault(logger)
	warn := &ConfigNotFoundWarning{}

	if opts.Lab != "" {
		if cfg, ok := reg.Get(opts.Lab); ok {
			logger.Info("lab config selected", "lab", cfg.Key())
			return cfg, nil
		}
		warn.Lab = opts.Lab
	}

	for _, sh := range sheets {
		if cfg := Autodetect(reg, sh.Columns, sh.Name, logger); cfg != nil {
			if warn.Lab != "" {
				return cfg, warn
			}
			return cfg, nil
		}
	}

	if opts.DisableImprovise {
		return nil, warn
	}
	for _, sh := range sheets {
		if len(sh.Columns) == 0 {
			continue
		}
		warn.Improvised = true
		cfg := Cobble(reg, sh.Columns, logger)
		logger.Info("lab config improvised",
			"sheet", sh.Name,
			"mappings", len(cfg.Mappings),
			"analytes", len(cfg.Analytes),
		)
		return cfg, warn
	}
	return nil, warn
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
