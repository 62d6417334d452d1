package core

import "testing"

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantElement string
		wantID      string
		wantUnits   string
	}{
		{"plain", "pH", "pH", "", ""},
		{"units only", "K [ppm]", "K", "", "ppm"},
		{"id and units", "K (S-K-NH4OAC.05) [ppm]", "K", "S-K-NH4OAC.05", "ppm"},
		{"id only", "OM (S-OM-LOI.15)", "OM", "S-OM-LOI.15", ""},
		{"nested brackets", "stuff (other) [[ppm]]", "stuff", "other", "[ppm]"},
		{"unit with spaces", "BS-Ca [meq/100 g]", "BS-Ca", "", "meq/100 g"},
		{"newline folded", "Organic\nMatter [%]", "Organic Matter", "", "%"},
		{"collapses spaces", "  Nitrate   N  [ppm] ", "Nitrate N", "", "ppm"},
		{"missing close keeps rest", "Zn [ppm", "Zn", "", "ppm"},
		{"leading bracket", "[ppm]", "[ppm]", "", "ppm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ParseHeader(tt.input, nil)
			if h.Element != tt.wantElement {
				t.Errorf("ParseHeader(%q).Element = %q, want %q", tt.input, h.Element, tt.wantElement)
			}
			if h.ModusTestID != tt.wantID {
				t.Errorf("ParseHeader(%q).ModusTestID = %q, want %q", tt.input, h.ModusTestID, tt.wantID)
			}
			if h.Units != tt.wantUnits {
				t.Errorf("ParseHeader(%q).Units = %q, want %q", tt.input, h.Units, tt.wantUnits)
			}
			if h.Known {
				t.Errorf("ParseHeader(%q).Known = true without a lab config", tt.input)
			}
			if h.NutrientResult.Element != tt.wantElement {
				t.Errorf("ParseHeader(%q).NutrientResult.Element = %q, want %q", tt.input, h.NutrientResult.Element, tt.wantElement)
			}
		})
	}
}

func TestParseHeader_AnalyteLookup(t *testing.T) {
	cfg := &LabConfig{
		Name: "Lab",
		Type: LabSoil,
		Analytes: map[string]NutrientResult{
			"Potassium ppm K": {Element: "K", ValueUnit: "ppm"},
			"OM":              {Element: "OM", ValueUnit: "%", ModusTestID: "S-OM-LOI.15"},
		},
	}

	h := ParseHeader("Potassium ppm K", cfg)
	if !h.Known || h.NutrientResult.Element != "K" || h.NutrientResult.ValueUnit != "ppm" {
		t.Errorf("ParseHeader by column = %+v, want known K/ppm", h)
	}

	h = ParseHeader("OM [g/kg]", cfg)
	if !h.Known || h.NutrientResult.ModusTestID != "S-OM-LOI.15" {
		t.Errorf("ParseHeader by element = %+v, want known OM", h)
	}
	if h.Units != "g/kg" {
		t.Errorf("ParseHeader(\"OM [g/kg]\").Units = %q, want g/kg", h.Units)
	}

	h = ParseHeader("Zn [ppm]", cfg)
	if h.Known {
		t.Errorf("ParseHeader(\"Zn [ppm]\").Known = true, want false")
	}
}

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Sample ID ", "Sample ID"},
		{"Date\r\nRecd", "Date Recd"},
		{"a    b", "a b"},
	}
	for _, tt := range tests {
		if got := NormalizeColumnName(tt.input); got != tt.want {
			t.Errorf("NormalizeColumnName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
