package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(wardSoil)
}

func wardSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        "Ward Laboratories, Inc. - Kearney, NE",
		Type:        core.LabSoil,
		ExamplesKey: "ward",
		Mappings: core.Mappings{
			"Kind Of Sample": nil,
			"Lab No":         {core.FieldSampleNumber},
			"Cust No":        {"ClientAccountNumber"},
			"Name":           {"ClientName"},
			"Company":        {"ClientCompany"},
			"Address 1":      {"ClientAddress"},
			"Address 2":      nil,
			"City":           {"ClientCity"},
			"State":          {"ClientState"},
			"Zip":            {"ClientZip"},
			"Grower":         {"GrowerName"},
			"Field ID":       {"FieldName"},
			"Sample ID":      {core.FieldFMISSampleID},
			"Date Recd":      {"DateReceived"},
			"Date Rept":      {"DateProcessed"},
			"B Depth":        {"StartingDepth"},
			"E Depth":        {"EndingDepth"},
			"Past Crop":      nil,
		},
	}
}
