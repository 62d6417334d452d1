package labs

// yaml.go loads lab configs from a YAML dataset, e.g.
//
//	labs:
//	  - name: Example Lab
//	    type: Soil
//	    mappings:
//	      Sample ID: SampleNumber
//	      Sample Date: [ReportDate, DateReceived]
//	      Notes: ~
//	    analytes:
//	      K_ppm: {element: K, unit: ppm, modus_test_id: S-K-NH4AC.05}
//	    depth: {name: 0-20cm, unit: cm, start: 0, end: 20}

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/labnorm/internal/core"
)

type dataset struct {
	Labs []labEntry `yaml:"labs"`
}

type labEntry struct {
	Name        string                  `yaml:"name"`
	Type        string                  `yaml:"type"`
	ExamplesKey string                  `yaml:"examples_key"`
	Mappings    map[string]fieldList    `yaml:"mappings"`
	Analytes    map[string]analyteEntry `yaml:"analytes"`
	Units       map[string]string       `yaml:"units"`
	Depth       *depthEntry             `yaml:"depth"`
}

type analyteEntry struct {
	Element     string `yaml:"element"`
	Unit        string `yaml:"unit"`
	ModusTestID string `yaml:"modus_test_id"`
	CsvHeader   string `yaml:"csv_header"`
}

type depthEntry struct {
	Name   string   `yaml:"name"`
	Unit   string   `yaml:"unit"`
	Start  *float64 `yaml:"start"`
	End    *float64 `yaml:"end"`
	Column *float64 `yaml:"column"`
}

// fieldList accepts a single field key or a list of them.
type fieldList []string

func (f *fieldList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			*f = nil
			return nil
		}
		*f = fieldList{n.Value}
		return nil
	case yaml.SequenceNode:
		var keys []string
		if err := n.Decode(&keys); err != nil {
			return err
		}
		*f = keys
		return nil
	}
	return fmt.Errorf("line %d: mapping must be a field key or a list of keys", n.Line)
}

// LoadYAML reads lab configs from r. Every problem found is reported in
// one error.
func LoadYAML(r io.Reader) ([]*core.LabConfig, error) {
	var ds dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode lab dataset: %w", err)
	}

	var errs []error
	seen := make(map[string]bool, len(ds.Labs))
	out := make([]*core.LabConfig, 0, len(ds.Labs))
	for i, e := range ds.Labs {
		cfg, err := e.toConfig()
		if err != nil {
			errs = append(errs, fmt.Errorf("labs[%d]: %w", i, err))
			continue
		}
		if seen[cfg.Key()] {
			errs = append(errs, fmt.Errorf("labs[%d]: duplicate lab %q", i, cfg.Key()))
			continue
		}
		seen[cfg.Key()] = true
		out = append(out, cfg)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Load reads a YAML dataset from path.
func Load(path string) ([]*core.LabConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lab dataset: %w", err)
	}
	defer f.Close()

	cfgs, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfgs, nil
}

func (e labEntry) toConfig() (*core.LabConfig, error) {
	if e.Name == "" {
		return nil, errors.New("name is required")
	}
	labType := core.LabSoil
	if e.Type != "" {
		t, ok := core.ParseLabType(e.Type)
		if !ok {
			return nil, fmt.Errorf("%s: unknown lab type %q", e.Name, e.Type)
		}
		labType = t
	}

	cfg := &core.LabConfig{
		Name:        e.Name,
		Type:        labType,
		ExamplesKey: e.ExamplesKey,
		Mappings:    make(core.Mappings, len(e.Mappings)),
		Analytes:    make(map[string]core.NutrientResult, len(e.Analytes)),
	}
	for col, keys := range e.Mappings {
		for _, k := range keys {
			if !core.IsCanonicalField(k) {
				return nil, fmt.Errorf("%s: column %q maps to unknown field %q", e.Name, col, k)
			}
		}
		cfg.Mappings[col] = []string(keys)
	}
	for col, a := range e.Analytes {
		if a.Element == "" {
			return nil, fmt.Errorf("%s: analyte %q has no element", e.Name, col)
		}
		cfg.Analytes[col] = core.NutrientResult{
			Element:     a.Element,
			ValueUnit:   a.Unit,
			ModusTestID: a.ModusTestID,
			CsvHeader:   a.CsvHeader,
		}
	}
	if len(e.Units) > 0 {
		cfg.Units = make(map[string]string, len(e.Units))
		for col, a := range cfg.Analytes {
			if a.ValueUnit != "" {
				cfg.Units[col] = a.ValueUnit
			}
		}
		for col, u := range e.Units {
			cfg.Units[col] = u
		}
	}
	if d := e.Depth; d != nil {
		cfg.DepthInfo = core.StaticDepth(core.DepthHint{
			Name:          d.Name,
			DepthUnit:     d.Unit,
			StartingDepth: d.Start,
			EndingDepth:   d.End,
			ColumnDepth:   d.Column,
		})
	}
	return cfg, nil
}
