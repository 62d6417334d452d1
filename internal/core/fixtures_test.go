package core

// testLabs returns a small registry shaped like real lab tables.
func testLabs() *Registry {
	soil := &LabConfig{
		Name: "West",
		Type: LabSoil,
		Mappings: Mappings{
			"Lab No":    {FieldLabID},
			"Cust No":   {"ClientAccountNumber"},
			"Grower":    {FieldGrower},
			"Field ID":  {FieldField},
			"Sample ID": {FieldSampleNumber},
			"Report No": {FieldLabReportID},
			"Date Recd": {FieldEventDate},
			"Date Rept": {FieldProcessedDate},
			"B Depth":   {"StartingDepth"},
			"E Depth":   {"EndingDepth"},
			"Past Crop": nil,
		},
		Analytes: map[string]NutrientResult{
			"Potassium ppm K":      {Element: "K", ValueUnit: "ppm"},
			"Organic Matter LOI %": {Element: "OM", ValueUnit: "%"},
			"Bray P-1 ppm P":       {Element: "P", ValueUnit: "ppm", ModusTestID: "S-P-B1-1:10.01.03"},
			"%Ca Sat":              {Element: "BS-Ca", ValueUnit: "%"},
		},
	}
	plant := &LabConfig{
		Name: "West",
		Type: LabPlant,
		Mappings: Mappings{
			"SAMPLEID": {FieldSampleNumber},
			"DATESUB":  {FieldEventDate},
			"CROP":     {FieldCrop},
		},
		Analytes: map[string]NutrientResult{
			"N": {Element: "N", ValueUnit: "%"},
			"K": {Element: "K", ValueUnit: "%"},
		},
	}
	return NewRegistry(plant, soil)
}
