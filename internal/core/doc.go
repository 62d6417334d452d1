// Package core turns agricultural lab-report spreadsheets into canonical,
// validated lab events.
//
// The package has no transport or storage dependencies. Web handlers, CLI
// tools and tests drive it through [Converter].
//
// # Pipeline
//
// A conversion runs these steps over one [Workbook]:
//
//  1. [PartitionWorkbook] separates data sheets from the point-metadata
//     sheet and strips COMMENT and UNITS rows. UNITS rows become sheet-wide
//     unit overrides.
//  2. [ResolveLab] picks a [LabConfig]: an explicit selection, then
//     [Autodetect] against the [Registry], then [Cobble] as a best-effort
//     improvisation.
//  3. [DateColumn] and [GroupRows] split each sheet into date groups.
//  4. Each group is built into one [Event]. Depths and reports are
//     de-duplicated per Event through [DepthRefs] and [Reports]; result
//     units come from [ResolveUnit] and are handed to the [UnitsConverter].
//  5. The [SchemaValidator] accepts or rejects the Event.
//
// # Lab Configs
//
// Lab tables live in the labs subpackage and are registered in a fixed
// order. Autodetection accepts the first config whose header vocabulary
// covers every column of a sheet:
//
//	reg := core.NewRegistry(&core.LabConfig{
//	    Name: "Example Lab",
//	    Type: core.LabSoil,
//	    Mappings: core.Mappings{
//	        "Sample ID":   {core.FieldSampleNumber},
//	        "Date Recd":   {core.FieldEventDate},
//	    },
//	    Analytes: map[string]core.NutrientResult{
//	        "Potassium ppm K": {Element: "K", ValueUnit: "ppm"},
//	    },
//	})
//
// # Failure Scope
//
// Heuristic steps log and degrade; their warnings are collected on the
// [Result]. A sheet without a date column ([MissingDateColumnError]) and a
// group that fails validation ([SchemaValidationError]) are dropped on
// their own while sibling sheets and groups still convert. Technical errors
// map to coded user messages through [MapError].
//
// # Concurrency
//
// A [Converter] holds no per-conversion state. [Converter.ConvertFiles]
// converts independent workbooks in parallel, bounded by a [Limiter].
package core
