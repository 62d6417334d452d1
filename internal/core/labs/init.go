// Package labs holds the lab configs known to the converter.
//
// Each lab file registers a constructor from init(). Every registry built
// here gets fresh configs, so registries never share mutable state.
package labs

import (
	"sort"
	"sync"

	"github.com/JonMunkholm/labnorm/internal/core"
)

var builtins []func() *core.LabConfig

func register(fn func() *core.LabConfig) {
	builtins = append(builtins, fn)
}

var defaultRegistry = sync.OnceValue(func() *core.Registry {
	return NewRegistry()
})

// Default returns the shared registry of built-in labs.
func Default() *core.Registry {
	return defaultRegistry()
}

// NewRegistry builds a registry from the built-in labs plus extra. An extra
// config with the key of a built-in lab is merged into it; the others are
// added. Configs are ordered by ascending header count so autodetection
// tries the narrowest vocabulary first.
func NewRegistry(extra ...*core.LabConfig) *core.Registry {
	configs := make([]*core.LabConfig, 0, len(builtins)+len(extra))
	byKey := make(map[string]*core.LabConfig, len(builtins))
	for _, fn := range builtins {
		cfg := fn()
		configs = append(configs, cfg)
		byKey[cfg.Key()] = cfg
	}
	for _, cfg := range extra {
		if base, ok := byKey[cfg.Key()]; ok {
			merge(base, cfg)
			continue
		}
		configs = append(configs, cfg)
		byKey[cfg.Key()] = cfg
	}

	for _, cfg := range configs {
		cfg.Prepare()
	}
	sort.SliceStable(configs, func(i, j int) bool {
		if len(configs[i].Headers) != len(configs[j].Headers) {
			return len(configs[i].Headers) < len(configs[j].Headers)
		}
		return configs[i].Key() < configs[j].Key()
	})
	return core.NewRegistry(configs...)
}

// merge overlays over onto base. Analytes, mappings and units from over
// replace those of the same column.
func merge(base, over *core.LabConfig) {
	if base.Analytes == nil {
		base.Analytes = make(map[string]core.NutrientResult, len(over.Analytes))
	}
	for col, a := range over.Analytes {
		base.Analytes[col] = a
	}
	if base.Mappings == nil {
		base.Mappings = make(core.Mappings, len(over.Mappings))
	}
	for col, keys := range over.Mappings {
		base.Mappings[col] = keys
	}
	if len(over.Units) > 0 {
		units := make(map[string]string, len(base.Analytes))
		for col, a := range base.Analytes {
			if a.ValueUnit != "" {
				units[col] = a.ValueUnit
			}
		}
		for col, u := range over.Units {
			units[col] = u
		}
		base.Units = units
	}
	if over.DepthInfo != nil {
		base.DepthInfo = over.DepthInfo
	}
	if over.ExamplesKey != "" {
		base.ExamplesKey = over.ExamplesKey
	}
}
