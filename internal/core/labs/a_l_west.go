package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(alWestSoil)
	register(alWestPlant)
}

const alWestName = "A&L Western Agricultural Labs - Modesto, CA"

// alWestMappings is shared by the soil and plant exports. DATESAMPL is
// blank in every export seen so far.
func alWestMappings() core.Mappings {
	return core.Mappings{
		"SAMPLEID":  {core.FieldSampleNumber},
		"LABNUM":    {core.FieldSampleContainerID},
		"REPORTNUM": {core.FieldLabEventID},
		"DATESAMPL": nil,
		"DATESUB":   {core.FieldEventDate},
		"CLIENT":    {core.FieldAccountNumber},
		"GROWER":    {core.FieldGrower},
		"PERSON":    {core.FieldName},
		"TIMESUB":   nil,
		"CROP":      nil,
		"TYPE":      nil,
	}
}

func alWestSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        alWestName,
		Type:        core.LabSoil,
		Mappings:    alWestMappings(),
		ExamplesKey: "a_l_west",
		Analytes: map[string]core.NutrientResult{
			"OM":        {Element: "OM", ValueUnit: "%", ModusTestID: "S-SOM-LOI.15"},
			"ENR":       {Element: "ENR", ValueUnit: "lb/ac", ModusTestID: "S-ENR.19"},
			"P1":        {Element: "P (Bray P1 1:10)", ValueUnit: "ppm", ModusTestID: "S-P-B1-1:10.01.03"},
			"P2":        {Element: "P (Bray P2 1:10)", ValueUnit: "ppm", ModusTestID: "S-P-B2-1:10.01.03"},
			"HCO3_P":    {Element: "P (Olsen)", ValueUnit: "ppm", ModusTestID: "S-P-BIC.04"},
			"PH":        {Element: "pH", ValueUnit: "none", ModusTestID: "S-PH-SP.02"},
			"K":         {Element: "K", ValueUnit: "ppm", ModusTestID: "S-K-NH4AC.05"},
			"MG":        {Element: "Mg", ValueUnit: "ppm", ModusTestID: "S-MG-NH4AC.05"},
			"CA":        {Element: "Ca", ValueUnit: "ppm", ModusTestID: "S-CA-NH4AC.05"},
			"NA":        {Element: "Na", ValueUnit: "ppm", ModusTestID: "S-NA-NH4AC.05"},
			"BUFFER_PH": {Element: "B-pH", ValueUnit: "none", ModusTestID: "S-BPH-SIK1.02"},
			"CEC":       {Element: "CEC", ValueUnit: "meq/100 g", ModusTestID: "S-CEC.19"},
			"NO3_N":     {Element: "NO3-N", ValueUnit: "ppm", ModusTestID: "S-NO3-1:5.01.01"},
			"ZN":        {Element: "Zn", ValueUnit: "ppm", ModusTestID: "S-ZN-DTPA-SORB.05"},
			"MN":        {Element: "Mn", ValueUnit: "ppm", ModusTestID: "S-MN-DTPA-SORB.05"},
			"FE":        {Element: "Fe", ValueUnit: "ppm", ModusTestID: "S-FE-DTPA-SORB.05"},
			"CU":        {Element: "Cu", ValueUnit: "ppm", ModusTestID: "S-CU-DTPA-SORB.05"},
			"MO":        {Element: "Mo", ValueUnit: "ppm"},
			"B":         {Element: "B", ValueUnit: "ppm", ModusTestID: "S-B-DTPA-SORB.05"},
			"CL":        {Element: "Cl", ValueUnit: "ppm", ModusTestID: "S-CL-SP.01"},
			"SO4_S":     {Element: "SO4-S", ValueUnit: "ppm", ModusTestID: "S-S-NH4AC.05"},
			"SAT_PCT":   {Element: "Sat-Pct", ValueUnit: "%", ModusTestID: "S-SP%.19"},
			"S__SALTS":  {Element: "SS", ValueUnit: "mmho/cm"},
			"ESP":       {Element: "ESP", ValueUnit: "%", ModusTestID: "S-ESP.19"},
			"SAR":       {Element: "SAR", ValueUnit: "ppm"},
			"NH4":       {Element: "NH4-N", ValueUnit: "ppm"},
			"EC":        {Element: "EC", ValueUnit: "dS/m"},
			"CO3":       {Element: "CO3", ValueUnit: "ppm", ModusTestID: "S-CO3-SP.12"},
			"HCO3":      {Element: "HCO3", ValueUnit: "ppm", ModusTestID: "S-HCO3-SP.12"},
			"H":         {Element: "H", ValueUnit: "meq/100 g"},
			"S":         {Element: "S", ValueUnit: "ppm"},
			"AL":        {Element: "Al", ValueUnit: "ppm"},
			"EX__LIME":  {Element: "Excess-Lime"},
			"K_PCT":     {Element: "BS-K", ValueUnit: "%", ModusTestID: "S-BS-K.19"},
			"MG_PCT":    {Element: "BS-Mg", ValueUnit: "%", ModusTestID: "S-BS-MG.19"},
			"CA_PCT":    {Element: "BS-Ca", ValueUnit: "%", ModusTestID: "S-BS-CA.19"},
			"H_PCT":     {Element: "BS-H", ValueUnit: "%", ModusTestID: "S-BS-H.19"},
			"NA_PCT":    {Element: "BS-Na", ValueUnit: "%", ModusTestID: "S-BS-NA.19"},
			"CA_SAT":    {Element: "BS-Ca", ValueUnit: "meq/100 g"},
			"MG_SAT":    {Element: "BS-Mg", ValueUnit: "meq/100 g"},
			"NA_SAT":    {Element: "BS-Na", ValueUnit: "meq/100 g"},
			"B_SAT":     {Element: "BS-B", ValueUnit: "meq/100 g"},
		},
	}
}

func alWestPlant() *core.LabConfig {
	m := alWestMappings()
	m["CROP"] = []string{core.FieldCrop}
	return &core.LabConfig{
		Name:        alWestName,
		Type:        core.LabPlant,
		TypeFunc:    alWestType,
		Mappings:    m,
		ExamplesKey: "a_l_west",
		Analytes: map[string]core.NutrientResult{
			"N":     {Element: "N", ValueUnit: "meq/100g"},
			"P":     {Element: "Phosphorus", ValueUnit: "ppm"},
			"K":     {Element: "K", ValueUnit: "ppm"},
			"MG":    {Element: "Mg", ValueUnit: "ppm"},
			"CA":    {Element: "Ca", ValueUnit: "ppm"},
			"NA":    {Element: "Na", ValueUnit: "ppm"},
			"NO3_N": {Element: "NO3-N", ValueUnit: "ppm"},
			"S":     {Element: "S", ValueUnit: "ppm"},
			"ZN":    {Element: "Zn", ValueUnit: "ppm"},
			"MN":    {Element: "Mn", ValueUnit: "ppm"},
			"FE":    {Element: "Fe", ValueUnit: "ppm"},
			"CU":    {Element: "Cu", ValueUnit: "ppm"},
			"B":     {Element: "B", ValueUnit: "ppm"},
			"CL":    {Element: "Cl", ValueUnit: "ppm"},
			"MO":    {Element: "Mo", ValueUnit: "ppm"},
			"AL":    {Element: "Al", ValueUnit: "ppm"},
			"PO4_P": {Element: "PO4_P", ValueUnit: "meq/100g"},
			"K_EXT": {Element: "Potassium Extracted", ValueUnit: "meq/100g"},
			"SO4_S": {Element: "SO4-S", ValueUnit: "ppm"},
		},
	}
}
