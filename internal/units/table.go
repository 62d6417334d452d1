package units

import "strings"

// dimension groups units that convert into each other by a constant factor.
type dimension string

const (
	massFraction dimension = "mass fraction"
	charge       dimension = "charge per mass"
	conductivity dimension = "conductivity"
	arealMass    dimension = "mass per area"
	length       dimension = "length"
	unitless     dimension = "unitless"
)

type unitDef struct {
	dim    dimension
	factor float64 // to the dimension's base unit
}

// Base units: ppm, meq/100g, dS/m, lb/ac, cm.
var unitDefs = map[string]unitDef{
	"ppm":      {massFraction, 1},
	"mg/kg":    {massFraction, 1},
	"ug/g":     {massFraction, 1},
	"ug/kg":    {massFraction, 0.001},
	"mg/g":     {massFraction, 1000},
	"g/kg":     {massFraction, 1000},
	"%":        {massFraction, 10000},
	"meq/100g": {charge, 1},
	"cmol/kg":  {charge, 1},
	"dS/m":     {conductivity, 1},
	"mmho/cm":  {conductivity, 1},
	"mS/cm":    {conductivity, 1},
	"umho/cm":  {conductivity, 0.001},
	"uS/cm":    {conductivity, 0.001},
	"lb/ac":    {arealMass, 1},
	"kg/ha":    {arealMass, 0.892179},
	"kg/ac":    {arealMass, 2.204623},
	"cm":       {length, 1},
	"mm":       {length, 0.1},
	"m":        {length, 100},
	"in":       {length, 2.54},
	"ft":       {length, 30.48},
	"":         {unitless, 1},
}

// aliases maps lower-cased spellings found in lab exports to unitDefs keys.
var aliases = map[string]string{
	"[ppm]":                 "ppm",
	"mg/kg":                 "mg/kg",
	"mg kg-1":               "mg/kg",
	"ppm":                   "ppm",
	"ug/g":                  "ug/g",
	"ug/kg":                 "ug/kg",
	"mg/g":                  "mg/g",
	"g/kg":                  "g/kg",
	"%":                     "%",
	"pct":                   "%",
	"percent":               "%",
	"% bs":                  "%",
	"% cec":                 "%",
	"meq/100g":              "meq/100g",
	"meq/100 g":             "meq/100g",
	"meq/(100.g)":           "meq/100g",
	"me/100g":               "meq/100g",
	"me/100 g":              "meq/100g",
	"sum of cation me/100g": "meq/100g",
	"cmol/kg":               "cmol/kg",
	"cmol(+)/kg":            "cmol/kg",
	"cmolc/kg":              "cmol/kg",
	"ds/m":                  "dS/m",
	"mmho/cm":               "mmho/cm",
	"mmhos/cm":              "mmho/cm",
	"ms/cm":                 "mS/cm",
	"umho/cm":               "umho/cm",
	"umhos/cm":              "umho/cm",
	"us/cm":                 "uS/cm",
	"lb/ac":                 "lb/ac",
	"lbs/ac":                "lb/ac",
	"lb/acre":               "lb/ac",
	"lbs/acre":              "lb/ac",
	"[lb_av]/[acr_us]":      "lb/ac",
	"kg/ha":                 "kg/ha",
	"kg/ac":                 "kg/ac",
	"cm":                    "cm",
	"mm":                    "mm",
	"m":                     "m",
	"in":                    "in",
	"inch":                  "in",
	"inches":                "in",
	"[in_i]":                "in",
	"ft":                    "ft",
	"feet":                  "ft",
	"none":                  "",
	"s.u.":                  "",
	"su":                    "",
	"standard unit":         "",
	"standard units":        "",
}

// canonical returns the unitDefs key for a unit as written by a lab.
func canonical(unit string) (string, bool) {
	u := strings.ToLower(strings.Join(strings.Fields(unit), " "))
	c, ok := aliases[u]
	return c, ok
}

// Standard is the unit an element is reported in after conversion and the
// test id assumed when a lab gives none.
type Standard struct {
	Unit        string
	ModusTestID string
}

var standards = map[string]Standard{
	"pH":               {"", "S-PH-1:1.02.07"},
	"B-pH":             {"", "S-BPH-WB.02"},
	"OM":               {"%", "S-SOM-LOI.15"},
	"TC":               {"%", "S-TC-COMB.15"},
	"ENR":              {"lb/ac", "S-ENR.19"},
	"P":                {"ppm", "S-P-M3.04"},
	"P (Bray P1 1:10)": {"ppm", "S-P-B1-1:10.01.03"},
	"P (Bray P2 1:10)": {"ppm", "S-P-B2-1:10.01.03"},
	"P (Olsen)":        {"ppm", "S-P-BIC.04"},
	"K":                {"ppm", "S-K-NH4AC.05"},
	"Ca":               {"ppm", "S-CA-NH4AC.05"},
	"Mg":               {"ppm", "S-MG-NH4AC.05"},
	"Na":               {"ppm", "S-NA-NH4AC.05"},
	"S":                {"ppm", "S-S-M3.05"},
	"SO4-S":            {"ppm", "S-S-NH4AC.05"},
	"NO3-N":            {"ppm", "S-NO3-1:5.01.01"},
	"NO2-N":            {"ppm", "S-NO2-KCL.01"},
	"NH4-N":            {"ppm", ""},
	"Zn":               {"ppm", "S-ZN-DTPA-SORB.05"},
	"Mn":               {"ppm", "S-MN-DTPA-SORB.05"},
	"Fe":               {"ppm", "S-FE-DTPA-SORB.05"},
	"Cu":               {"ppm", "S-CU-DTPA-SORB.05"},
	"B":                {"ppm", "S-B-DTPA-SORB.05"},
	"Cl":               {"ppm", "S-CL-SP.01"},
	"Mo":               {"ppm", "S-MO-HOTH2O.04"},
	"Al":               {"ppm", "S-AL-M3.05"},
	"CO3":              {"ppm", "S-CO3-SP.12"},
	"HCO3":             {"ppm", "S-HCO3-SP.12"},
	"H":                {"meq/100g", ""},
	"CEC":              {"meq/100g", "S-CEC.19"},
	"BS-K":             {"%", "S-BS-K.19"},
	"BS-Ca":            {"%", "S-BS-CA.19"},
	"BS-Mg":            {"%", "S-BS-MG.19"},
	"BS-H":             {"%", "S-BS-H.19"},
	"BS-Na":            {"%", "S-BS-NA.19"},
	"ESP":              {"%", "S-ESP.19"},
	"Sat-Pct":          {"%", "S-SP%.19"},
	"Soil-Moisture":    {"%", "S-MOIST-GRAV.00"},
	"SS":               {"mmho/cm", "S-SS.19"},
	"EC":               {"dS/m", "S-EC-SP.03"},
	"Excess-Lime":      {"", ""},
	"SAR":              {"", "S-SAR-SP.00"},
}

// equivalentWeights are molecular weight over charge, in g/eq, for
// converting between charge and mass fractions.
var equivalentWeights = map[string]float64{
	"Al":    26.98 / 3,
	"B":     10.811,
	"C":     12.01,
	"Ca":    40.08 / 2,
	"Cl":    35.45,
	"Cu":    63.546 / 2,
	"Fe":    55.85 / 2,
	"H":     1.008,
	"HCO3":  61.02,
	"K":     39.10,
	"Mg":    24.31 / 2,
	"Mn":    54.94 / 2,
	"Mo":    95.94,
	"Na":    22.99,
	"NH4-N": 18.04,
	"S":     96.06 / 2,
	"SO4-S": 96.06 / 2,
	"Zn":    65.38 / 2,
}

// StandardFor returns the standard unit and default test id of element.
func StandardFor(element string) (Standard, bool) {
	s, ok := standards[element]
	return s, ok
}

// ModusTestID returns the default test id of element, or "".
func ModusTestID(element string) string {
	return standards[element].ModusTestID
}
