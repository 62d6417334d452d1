package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(kuoSoil)
}

func kuoSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        "Kuo Testing Laboratories",
		Type:        core.LabSoil,
		ExamplesKey: "kuo",
		Mappings: core.Mappings{
			"IncKey":        {core.FieldSampleNumber},
			"RequestIncKey": nil,
			"Client":        {"AccountName"},
			"Grower":        {core.FieldGrower},
			"Sampler":       nil,
			"LabNo":         {core.FieldSampleContainerID},
			"RptNo":         {core.FieldLabReportID},
			"Date":          {core.FieldReceivedDate},
			"SampleDate":    {core.FieldEventDate},
			"Field":         {core.FieldField},
			"SampleID":      nil, // blank; lab and sampler ids are already mapped
			"Crop":          {core.FieldCrop},
			"StartingDepth": {"StartingDepth"},
			"EndingDepth":   {"EndingDepth"},
			"Test":          nil,
			"ProjectId":     nil,
			"ProjectNumber": nil,
			"ProjectName":   nil,
			"MODUSEvent":    {core.FieldEventCode},
		},
	}
}
