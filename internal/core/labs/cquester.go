package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(cquesterSoil)
}

func cquesterSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        "Cquester Analytics",
		Type:        core.LabSoil,
		ExamplesKey: "cquester",
		Mappings: core.Mappings{
			"Sample ID": {core.FieldSampleNumber},
		},
	}
}
