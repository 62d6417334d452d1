package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(ugaSoil)
}

func ugaSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        "University of Georgia Extension Ag & Environmental Services Labs - Athens, GA",
		Type:        core.LabSoil,
		ExamplesKey: "UGA",
		Mappings: core.Mappings{
			"Lab":      {core.FieldSampleNumber},
			"Point ID": {core.FieldFMISSampleID},
			"Date":     {core.FieldReportDate, core.FieldEventDate},
		},
	}
}
