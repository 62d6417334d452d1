package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(soiltestSoil)
}

// soiltestSoil reads depths from a "Depth..." column holding "0 to 20".
func soiltestSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        "Soiltest Farm Consultants, Inc.",
		Type:        core.LabSoil,
		ExamplesKey: "soiltestfarmconsultants",
		DepthInfo:   core.ComputedDepth(depthRangeColumn),
		Mappings: core.Mappings{
			"id code":      {core.FieldSampleNumber},
			"grower name":  {core.FieldGrower},
			"account name": {"ClientCompany"},
			"Field ID":     {core.FieldField},
			"Grid":         nil,
			"Lab Number":   {core.FieldSampleContainerID},
			"Field Desc":   nil,
			"Date Tested":  {core.FieldReportDate, "DateReceived"},
			"Crop":         nil,
			"YLDGOAL":      nil,
			"depth range":  {"StartingDepth"},
			"OTHER ID#":    nil,
		},
	}
}
