package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(brooksideSoil)
}

func brooksideSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        "Brookside Laboratories, Inc. - New Bremen, OH",
		Type:        core.LabSoil,
		ExamplesKey: "brookside",
		Mappings: core.Mappings{
			"Sample Location": {core.FieldField},
			"Sample ID1":      {core.FieldFMISSampleID},
			"Sample ID2":      nil,
			"Lab Number":      {core.FieldSampleNumber},
			"Client Number":   {"ClientAccountNumber"},
			"Client Name":     {"ClientAccountName"},
			"Sample Date":     {core.FieldReportDate, "DateReceived"},
			"Consultant Name": {core.FieldGrower},
		},
	}
}
