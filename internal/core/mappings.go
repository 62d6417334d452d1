package core

// mappings.go defines the canonical field keys lab columns map onto and the
// lookups that read those fields from a row.
//
// A field value is found by, in order:
//  1. the columns the lab config maps to the field
//  2. a column whose parsed name is the field key itself (or an alias), so
//     files already written in canonical form convert without a lab config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FieldType is how a canonical field's raw cell is interpreted.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
)

// Canonical field keys.
const (
	FieldSampleNumber      = "SampleNumber"
	FieldSampleContainerID = "SampleContainerID"
	FieldFMISSampleID      = "FMISSampleID"
	FieldLabReportID       = "LabReportID"
	FieldLatitude          = "Latitude"
	FieldLongitude         = "Longitude"

	FieldEventDate     = "EventDate"
	FieldReportDate    = "ReportDate"
	FieldReceivedDate  = "ReceivedDate"
	FieldProcessedDate = "ProcessedDate"
	FieldEventCode     = "EventCode"
	FieldReportType    = "ReportType"

	FieldCrop                   = "Crop"
	FieldCropClientID           = "CropClientID"
	FieldGrowthStage            = "GrowthStage"
	FieldGrowthStageClientID    = "GrowthStageClientID"
	FieldSubGrowthStage         = "SubGrowthStage"
	FieldSubGrowthStageClientID = "SubGrowthStageClientID"
	FieldPlantPart              = "PlantPart"

	FieldLabName       = "LabName"
	FieldLabID         = "LabID"
	FieldLabEventID    = "LabEventID"
	FieldAccountNumber = "AccountNumber"
	FieldCompany       = "Company"
	FieldName          = "Name"
	FieldAddress1      = "Address1"
	FieldAddress2      = "Address2"
	FieldCity          = "City"
	FieldState         = "State"
	FieldZip           = "Zip"

	FieldGrower   = "Grower"
	FieldFarm     = "Farm"
	FieldField    = "Field"
	FieldSubField = "SubField"

	FieldTop         = "Top"
	FieldBottom      = "Bottom"
	FieldColumnDepth = "ColumnDepth"
	FieldDepthName   = "DepthName"
	FieldDepthUnits  = "Units"
)

var canonicalFields = map[string]FieldType{
	FieldSampleNumber:      FieldText,
	FieldSampleContainerID: FieldText,
	FieldFMISSampleID:      FieldText,
	FieldLabReportID:       FieldText,
	FieldLatitude:          FieldNumeric,
	FieldLongitude:         FieldNumeric,

	FieldEventDate:     FieldDate,
	FieldReportDate:    FieldDate,
	FieldReceivedDate:  FieldDate,
	FieldProcessedDate: FieldDate,
	FieldEventCode:     FieldText,
	FieldReportType:    FieldText,

	FieldCrop:                   FieldText,
	FieldCropClientID:           FieldText,
	FieldGrowthStage:            FieldText,
	FieldGrowthStageClientID:    FieldText,
	FieldSubGrowthStage:         FieldText,
	FieldSubGrowthStageClientID: FieldText,
	FieldPlantPart:              FieldText,

	FieldLabName:       FieldText,
	FieldLabID:         FieldText,
	FieldLabEventID:    FieldText,
	FieldAccountNumber: FieldText,
	FieldCompany:       FieldText,
	FieldName:          FieldText,
	FieldAddress1:      FieldText,
	FieldAddress2:      FieldText,
	FieldCity:          FieldText,
	FieldState:         FieldText,
	FieldZip:           FieldText,

	FieldGrower:   FieldText,
	FieldFarm:     FieldText,
	FieldField:    FieldText,
	FieldSubField: FieldText,

	FieldTop:         FieldNumeric,
	FieldBottom:      FieldNumeric,
	FieldColumnDepth: FieldNumeric,
	FieldDepthName:   FieldText,
	FieldDepthUnits:  FieldText,
}

// fieldAliases folds the spellings found in lab tables onto canonical keys.
var fieldAliases = map[string]string{
	"DateReceived":        FieldReceivedDate,
	"DateProcessed":       FieldProcessedDate,
	"ClientAccountNumber": FieldAccountNumber,
	"ClientName":          FieldName,
	"AccountName":         FieldName,
	"ClientAccountName":   FieldName,
	"ClientCompany":       FieldCompany,
	"ClientAddress":       FieldAddress1,
	"ClientCity":          FieldCity,
	"ClientState":         FieldState,
	"ClientZip":           FieldZip,
	"GrowerName":          FieldGrower,
	"FarmName":            FieldFarm,
	"FieldName":           FieldField,
	"Sub-Field":           FieldSubField,
	"SubFieldName":        FieldSubField,
	"StartingDepth":       FieldTop,
	"EndingDepth":         FieldBottom,
	"DepthUnit":           FieldDepthUnits,
	"CropName":            FieldCrop,
}

// CanonicalField returns the canonical key for k, folding known aliases.
func CanonicalField(k string) string {
	if c, ok := fieldAliases[k]; ok {
		return c
	}
	return k
}

// IsCanonicalField reports whether k (or its alias) is a known field key.
func IsCanonicalField(k string) bool {
	_, ok := canonicalFields[CanonicalField(k)]
	return ok
}

// FieldTypeOf returns how the field's raw value is parsed.
func FieldTypeOf(key string) FieldType {
	return canonicalFields[CanonicalField(key)]
}

// normalizeKey upper-cases s and strips spaces, underscores and dashes.
// Point-metadata columns and fuzzy header matches compare in this form.
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cellString renders a cell as trimmed text.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(dateLayout)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// isEmptyCell reports whether a cell holds nothing.
func isEmptyCell(v any) bool {
	return cellString(v) == ""
}

// sortedKeys returns the row's column names in order.
func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FieldValue returns the trimmed text of canonical field key in row, or "".
func FieldValue(row Row, key string, cfg *LabConfig) string {
	_, v := fieldCell(row, key, cfg)
	return v
}

// fieldCell is FieldValue that also reports the column the value came from.
func fieldCell(row Row, key string, cfg *LabConfig) (string, string) {
	key = CanonicalField(key)
	for _, col := range cfg.columnsFor(key) {
		if v := cellString(row[col]); v != "" {
			return col, v
		}
	}
	for _, col := range sortedKeys(row) {
		if CanonicalField(ParseHeader(col, nil).Element) != key {
			continue
		}
		if v := cellString(row[col]); v != "" {
			return col, v
		}
	}
	return "", ""
}

// FieldColumn returns the first column holding canonical field key in row.
// Empty cells still count, so callers can find where a field lives.
func FieldColumn(row Row, key string, cfg *LabConfig) (string, bool) {
	key = CanonicalField(key)
	for _, col := range cfg.columnsFor(key) {
		if _, ok := row[col]; ok {
			return col, true
		}
	}
	for _, col := range sortedKeys(row) {
		if CanonicalField(ParseHeader(col, nil).Element) == key {
			return col, true
		}
	}
	return "", false
}

// metaValue reads field key from a point-metadata row, whose columns are in
// normalizeKey form.
func metaValue(meta Row, key string, cfg *LabConfig) string {
	if meta == nil {
		return ""
	}
	key = CanonicalField(key)
	for _, col := range cfg.columnsFor(key) {
		if v := cellString(meta[normalizeKey(col)]); v != "" {
			return v
		}
	}
	if v := cellString(meta[normalizeKey(key)]); v != "" {
		return v
	}
	for _, alias := range aliasesOf(key) {
		if v := cellString(meta[normalizeKey(alias)]); v != "" {
			return v
		}
	}
	return ""
}

// aliasesOf lists the alias spellings of canonical key, sorted.
func aliasesOf(key string) []string {
	var out []string
	for alias, canon := range fieldAliases {
		if canon == key {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// firstNonEmpty returns the first argument that is not "".
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
