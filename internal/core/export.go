package core

// export.go flattens Events back into a table with one row per sample depth.
// Result columns are written as "Element (ModusTestID) [Unit]" so the table
// converts again without a lab config. Elements that contain brackets
// themselves, such as "P (Olsen)", are written by test id alone and named
// again on import by an ElementResolver.

import (
	"strings"
)

// Fixed export columns, in output order. Depth columns get their unit
// appended per table.
var exportColumns = []string{
	FieldEventDate,
	FieldReportType,
	FieldLabName,
	FieldLabEventID,
	FieldLabReportID,
	FieldSampleNumber,
	FieldFMISSampleID,
	FieldSampleContainerID,
	FieldLatitude,
	FieldLongitude,
	FieldGrower,
	FieldFarm,
	FieldField,
	FieldSubField,
	FieldDepthName,
}

// ToSheet flattens the events into a sheet named name. Depth columns are
// written as "StartingDepth [unit]" for each depth unit present.
func ToSheet(name string, events []Event) Sheet {
	sh := Sheet{Name: name}

	var resultCols []string
	seenResult := make(map[string]bool)
	var depthCols []string
	seenDepth := make(map[string]bool)

	addResultCol := func(col string) {
		if !seenResult[col] {
			seenResult[col] = true
			resultCols = append(resultCols, col)
		}
	}
	addDepthCols := func(unit string) (string, string, string) {
		start := "StartingDepth [" + unit + "]"
		end := "EndingDepth [" + unit + "]"
		column := "ColumnDepth [" + unit + "]"
		if !seenDepth[unit] {
			seenDepth[unit] = true
			depthCols = append(depthCols, start, end, column)
		}
		return start, end, column
	}

	for _, ev := range events {
		base := eventRow(ev)
		reports := make(map[int]string, len(ev.LabMetaData.Reports))
		for _, r := range ev.LabMetaData.Reports {
			reports[r.ReportID] = r.LabReportID
		}

		if soil := ev.EventSamples.Soil; soil != nil {
			depths := make(map[int]DepthRef, len(soil.DepthRefs))
			for _, d := range soil.DepthRefs {
				depths[d.DepthID] = d
			}
			for _, s := range soil.SoilSamples {
				for _, sd := range s.Depths {
					row := sampleRow(base, s.SampleMetaData, reports)
					if d, ok := depths[sd.DepthID]; ok {
						start, end, column := addDepthCols(d.DepthUnit)
						row[FieldDepthName] = d.Name
						row[start] = d.StartingDepth
						row[end] = d.EndingDepth
						row[column] = d.ColumnDepth
					}
					for _, nr := range sd.NutrientResults {
						col := ResultHeader(nr)
						addResultCol(col)
						row[col] = exportValue(nr.Value)
					}
					sh.Rows = append(sh.Rows, row)
				}
			}
			continue
		}

		for _, s := range otherSamples(ev.EventSamples) {
			row := sampleRow(base, s.SampleMetaData, reports)
			for _, nr := range s.NutrientResults {
				col := ResultHeader(nr)
				addResultCol(col)
				row[col] = exportValue(nr.Value)
			}
			sh.Rows = append(sh.Rows, row)
		}
	}

	sh.Columns = append(sh.Columns, exportColumns...)
	sh.Columns = append(sh.Columns, depthCols...)
	sh.Columns = append(sh.Columns, resultCols...)
	return sh
}

// ResultHeader renders the structured column name of a result.
func ResultHeader(nr NutrientResult) string {
	var b strings.Builder
	if nr.ModusTestID == "" || !strings.ContainsAny(nr.Element, "()[]") {
		b.WriteString(nr.Element)
	}
	if nr.ModusTestID != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("(")
		b.WriteString(nr.ModusTestID)
		b.WriteString(")")
	}
	if nr.ValueUnit != "" {
		b.WriteString(" [")
		b.WriteString(nr.ValueUnit)
		b.WriteString("]")
	}
	return b.String()
}

func exportValue(v Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	return v.Text
}

func eventRow(ev Event) Row {
	row := Row{
		FieldEventDate:  ev.EventMetaData.EventDate,
		FieldReportType: string(ev.EventMetaData.EventType.LabType()),
		FieldLabName:    ev.LabMetaData.LabName,
		FieldLabEventID: ev.LabMetaData.LabEventID,
		FieldGrower:     ev.FMISMetaData.FMISProfile.Grower,
		FieldFarm:       ev.FMISMetaData.FMISProfile.Farm,
		FieldField:      ev.FMISMetaData.FMISProfile.Field,
		FieldSubField:   ev.FMISMetaData.FMISProfile.SubField,
	}
	return row
}

func sampleRow(base Row, sm SampleMetaData, reports map[int]string) Row {
	row := make(Row, len(base)+8)
	for k, v := range base {
		row[k] = v
	}
	row[FieldLabReportID] = reports[sm.ReportID]
	row[FieldSampleNumber] = sm.SampleNumber
	row[FieldFMISSampleID] = sm.FMISSampleID
	row[FieldSampleContainerID] = sm.SampleContainerID
	if lon, lat, ok := parseWKTPoint(sm.Geometry); ok {
		row[FieldLatitude] = lat
		row[FieldLongitude] = lon
	}
	return row
}

func otherSamples(s EventSamples) []Sample {
	switch {
	case s.Plant != nil:
		return s.Plant.PlantSamples
	case s.Water != nil:
		return s.Water.WaterSamples
	case s.Nematode != nil:
		return s.Nematode.NematodeSamples
	case s.Residue != nil:
		return s.Residue.ResidueSamples
	}
	return nil
}

// parseWKTPoint splits "POINT(lon lat)".
func parseWKTPoint(wkt string) (string, string, bool) {
	s := strings.TrimSpace(wkt)
	if !strings.HasPrefix(s, "POINT(") || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	parts := strings.Fields(s[len("POINT(") : len(s)-1])
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
