package core

// sample.go assembles one Event from the rows of a date group.
//
// Metadata fields resolve per row from the row itself, then the joined
// point-metadata row, then a fallback (an "Unknown ..." sentinel, the lab
// name or the group date). The first row fills every field; later rows only
// replace fields still holding their fallback.

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// sheetContext is what every group of one sheet shares.
type sheetContext struct {
	sheet     DataSheet
	cfg       *LabConfig
	headers   map[string]ColumnHeader
	overrides map[string]string
	pointMeta map[string]Row
	units     UnitsConverter
	logger    *slog.Logger
}

func newSheetContext(sheet DataSheet, cfg *LabConfig, pointMeta map[string]Row, units UnitsConverter, useOverrides bool, logger *slog.Logger) *sheetContext {
	sc := &sheetContext{
		sheet:     sheet,
		cfg:       cfg,
		headers:   ParseHeaders(sheet.Columns, cfg),
		pointMeta: pointMeta,
		units:     units,
		logger:    logger,
	}
	if sc.units == nil {
		sc.units = PassthroughUnits{}
	}
	if r, ok := sc.units.(ElementResolver); ok {
		for col, h := range sc.headers {
			sc.headers[col] = resolveElement(h, r, cfg)
		}
	}
	if sc.logger == nil {
		sc.logger = slog.Default()
	}
	if useOverrides {
		sc.overrides = sheet.UnitOverrides
		for col, u := range sheet.UnitOverrides {
			if h, ok := sc.headers[col]; ok {
				h.UnitsOverride = u
				sc.headers[col] = h
			}
		}
	}
	return sc
}

// eventBuilder owns the per-Event registries. One is created per date group
// and discarded after the Event is built.
type eventBuilder struct {
	sc       *sheetContext
	group    DateGroup
	labType  LabType
	event    Event
	depths   DepthRefs
	reports  Reports
	soil     []SoilSample
	samples  []Sample
	warnings []error
	started  bool
}

// buildEvent converts one date group into an Event. The returned warnings
// are non-fatal.
func buildEvent(sc *sheetContext, g DateGroup) (Event, []error) {
	b := &eventBuilder{sc: sc, group: g}
	for i, row := range g.Rows {
		line := i + 1
		if i < len(g.Lines) {
			line = g.Lines[i]
		}
		b.addRow(row, line)
	}
	b.finish()
	return b.event, b.warnings
}

func (b *eventBuilder) addRow(row Row, line int) {
	cfg := b.sc.cfg
	meta := b.lookupPointMeta(row)

	if !b.started {
		b.start(row, meta)
	}
	b.applyMeta(row, meta)
	b.started = true

	results := ExtractNutrientResults(row, b.sc.sheet.Columns, b.sc.headers, cfg)
	results, convWarnings := b.sc.units.ConvertUnits(results)
	for _, w := range convWarnings {
		b.warn(w, "element", w.Element)
	}
	if results == nil {
		results = []NutrientResult{}
	}

	sm := SampleMetaData{
		SampleNumber:      b.resolve(row, meta, FieldSampleNumber),
		FMISSampleID:      b.resolve(row, meta, FieldFMISSampleID),
		SampleContainerID: b.resolve(row, meta, FieldSampleContainerID),
		ReportID: b.reports.Ensure(
			b.resolve(row, meta, FieldLabReportID),
			fmt.Sprintf("%s_%d", b.sc.sheet.Name, b.group.Ordinal),
		),
		Geometry: firstNonEmpty(geometryOf(meta), geometryOf(row)),
	}

	if b.labType != LabSoil {
		b.samples = append(b.samples, Sample{SampleMetaData: sm, NutrientResults: results})
		return
	}

	depth, found := ExtractDepth(row, cfg, b.sc.overrides)
	if !found {
		b.warn(&DepthInferenceWarning{Sheet: b.sc.sheet.Name, Row: line, Depth: depth})
	}
	b.soil = append(b.soil, SoilSample{
		SampleMetaData: sm,
		Depths: []SampleDepth{{
			DepthID:         b.depths.Ensure(depth),
			NutrientResults: results,
		}},
	})
}

// start fixes the event date and type from the group's first row.
func (b *eventBuilder) start(row, meta Row) {
	b.labType = eventLabType(row, b.sc.cfg)
	b.event.EventMetaData.EventDate = b.group.Date

	switch b.labType {
	case LabPlant:
		b.event.EventMetaData.EventType.Plant = &PlantEventType{}
	case LabWater:
		b.event.EventMetaData.EventType.Water = true
	case LabNematode:
		b.event.EventMetaData.EventType.Nematode = true
	case LabResidue:
		b.event.EventMetaData.EventType.Residue = true
	default:
		b.event.EventMetaData.EventType.Soil = true
	}
}

type typeSource struct {
	name string
	read func(Row, *LabConfig) LabType
}

// typeSources is the precedence order for an event's type.
var typeSources = []typeSource{
	{"labConfig", func(row Row, cfg *LabConfig) LabType { return cfg.typeFor(row) }},
	{"reportType", func(row Row, cfg *LabConfig) LabType {
		t, _ := ParseLabType(FieldValue(row, FieldReportType, cfg))
		return t
	}},
	{"default", func(Row, *LabConfig) LabType { return LabSoil }},
}

func eventLabType(row Row, cfg *LabConfig) LabType {
	for _, src := range typeSources {
		if t := src.read(row, cfg); t != "" {
			return t
		}
	}
	return LabSoil
}

// finish attaches the collected samples and reports to the event.
func (b *eventBuilder) finish() {
	b.event.LabMetaData.Reports = b.reports.List()

	s := &b.event.EventSamples
	switch b.labType {
	case LabSoil:
		s.Soil = &SoilSamples{DepthRefs: b.depths.Refs(), SoilSamples: b.soil}
	case LabPlant:
		s.Plant = &PlantSamples{PlantSamples: b.samples}
	case LabWater:
		s.Water = &WaterSamples{WaterSamples: b.samples}
	case LabNematode:
		s.Nematode = &NematodeSamples{NematodeSamples: b.samples}
	case LabResidue:
		s.Residue = &ResidueSamples{ResidueSamples: b.samples}
	}
}

func (b *eventBuilder) warn(err error, args ...any) {
	b.warnings = append(b.warnings, err)
	attrs := append([]any{"sheet", b.sc.sheet.Name, "group_date", b.group.Date, "error", err}, args...)
	b.sc.logger.Warn("conversion warning", attrs...)
}

// resolve reads field key from the row, then the point-metadata row. Date
// fields are normalized when they parse.
func (b *eventBuilder) resolve(row, meta Row, key string) string {
	v := firstNonEmpty(
		FieldValue(row, key, b.sc.cfg),
		metaValue(meta, key, b.sc.cfg),
	)
	if v != "" && FieldTypeOf(key) == FieldDate {
		if d, ok := ParseDate(v); ok {
			return d
		}
	}
	return v
}

// lookupPointMeta joins a row to its point-metadata row by sample id.
func (b *eventBuilder) lookupPointMeta(row Row) Row {
	if len(b.sc.pointMeta) == 0 {
		return nil
	}
	ids := []string{
		FieldValue(row, FieldSampleNumber, b.sc.cfg),
		FieldValue(row, FieldFMISSampleID, b.sc.cfg),
		normalizedCell(row, "POINTID"),
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if meta, ok := b.sc.pointMeta[id]; ok {
			return meta
		}
	}
	return nil
}

// normalizedCell returns the first non-empty cell whose column is key in
// normalizeKey form.
func normalizedCell(row Row, key string) string {
	for _, col := range sortedKeys(row) {
		if normalizeKey(col) == key {
			if v := cellString(row[col]); v != "" {
				return v
			}
		}
	}
	return ""
}

type metaField struct {
	key      string
	target   func(*Event) *string
	fallback func(*eventBuilder) string
}

func sentinel(s string) func(*eventBuilder) string {
	return func(*eventBuilder) string { return s }
}

func groupDate(b *eventBuilder) string { return b.group.Date }

func noFallback(*eventBuilder) string { return "" }

func labNameFallback(b *eventBuilder) string {
	if b.sc.cfg != nil && b.sc.cfg.Name != "" {
		return b.sc.cfg.Name
	}
	return "Unknown Lab"
}

func plantField(get func(*PlantEventType) *string) func(*Event) *string {
	return func(e *Event) *string {
		if e.EventMetaData.EventType.Plant == nil {
			return nil
		}
		return get(e.EventMetaData.EventType.Plant)
	}
}

// metaFields lists the event metadata filled from rows.
var metaFields = []metaField{
	{FieldEventCode, func(e *Event) *string { return &e.EventMetaData.EventCode }, noFallback},

	{FieldLabName, func(e *Event) *string { return &e.LabMetaData.LabName }, labNameFallback},
	{FieldLabID, func(e *Event) *string { return &e.LabMetaData.LabID }, noFallback},
	{FieldLabEventID, func(e *Event) *string { return &e.LabMetaData.LabEventID }, sentinel("Unknown Lab Event ID")},
	{FieldProcessedDate, func(e *Event) *string { return &e.LabMetaData.ProcessedDate }, groupDate},
	{FieldReceivedDate, func(e *Event) *string { return &e.LabMetaData.ReceivedDate }, groupDate},

	{FieldAccountNumber, func(e *Event) *string { return &e.LabMetaData.ClientAccount.AccountNumber }, sentinel("Unknown Client Account")},
	{FieldCompany, func(e *Event) *string { return &e.LabMetaData.ClientAccount.Company }, sentinel("Unknown Client Company")},
	{FieldName, func(e *Event) *string { return &e.LabMetaData.ClientAccount.Name }, sentinel("Unknown Client Name")},
	{FieldAddress1, func(e *Event) *string { return &e.LabMetaData.ClientAccount.Address1 }, noFallback},
	{FieldAddress2, func(e *Event) *string { return &e.LabMetaData.ClientAccount.Address2 }, noFallback},
	{FieldCity, func(e *Event) *string { return &e.LabMetaData.ClientAccount.City }, sentinel("Unknown Client City")},
	{FieldState, func(e *Event) *string { return &e.LabMetaData.ClientAccount.State }, sentinel("Unknown Client State")},
	{FieldZip, func(e *Event) *string { return &e.LabMetaData.ClientAccount.Zip }, sentinel("Unknown Client Zip")},

	{FieldGrower, func(e *Event) *string { return &e.FMISMetaData.FMISProfile.Grower }, sentinel("Unknown Grower")},
	{FieldFarm, func(e *Event) *string { return &e.FMISMetaData.FMISProfile.Farm }, sentinel("Unknown Farm")},
	{FieldField, func(e *Event) *string { return &e.FMISMetaData.FMISProfile.Field }, sentinel("Unknown Field")},
	{FieldSubField, func(e *Event) *string { return &e.FMISMetaData.FMISProfile.SubField }, sentinel("Unknown Sub-Field")},

	{FieldCrop, plantField(func(p *PlantEventType) *string { return &p.Crop.Name }), sentinel("Unknown Crop")},
	{FieldAccountNumber, plantField(func(p *PlantEventType) *string { return &p.Crop.ClientID }), sentinel("Unknown Client")},
	{FieldGrowthStage, plantField(func(p *PlantEventType) *string { return &p.Crop.GrowthStage.Name }), sentinel("Unknown Growth Stage")},
	{FieldAccountNumber, plantField(func(p *PlantEventType) *string { return &p.Crop.GrowthStage.ClientID }), sentinel("Unknown Client")},
	{FieldSubGrowthStage, plantField(func(p *PlantEventType) *string { return &p.Crop.SubGrowthStage.Name }), sentinel("Unknown Sub-Growth Stage")},
	{FieldAccountNumber, plantField(func(p *PlantEventType) *string { return &p.Crop.SubGrowthStage.ClientID }), sentinel("Unknown Client")},
	{FieldPlantPart, plantField(func(p *PlantEventType) *string { return &p.PlantPart }), sentinel("Unknown Plant Part")},
}

func (b *eventBuilder) applyMeta(row, meta Row) {
	for _, f := range metaFields {
		t := f.target(&b.event)
		if t == nil {
			continue
		}
		fallback := f.fallback(b)
		v := b.resolve(row, meta, f.key)
		switch {
		case !b.started:
			*t = firstNonEmpty(v, fallback)
		case v != "" && *t == fallback:
			*t = v
		}
	}
}

// geometryOf builds a WKT point from latitude and longitude cells. Column
// names match loosely: anything containing LATITUDE or LONGITUDE, or exactly
// LAT, LON, LONG or LNG.
func geometryOf(r Row) string {
	if r == nil {
		return ""
	}
	norm := make(map[string]string, len(r))
	keys := make([]string, 0, len(r))
	for col, v := range r {
		k := normalizeKey(col)
		if _, dup := norm[k]; dup {
			continue
		}
		norm[k] = cellString(v)
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lat, lon string
	for _, k := range keys {
		if lon == "" && strings.Contains(k, "LONGITUDE") {
			lon = norm[k]
		}
		if lat == "" && strings.Contains(k, "LATITUDE") {
			lat = norm[k]
		}
	}
	for _, k := range []string{"LONG", "LNG", "LON"} {
		if v := norm[k]; v != "" {
			lon = v
		}
	}
	if v := norm["LAT"]; v != "" {
		lat = v
	}

	if lat == "" || lon == "" {
		return ""
	}
	return fmt.Sprintf("POINT(%s %s)", lon, lat)
}
