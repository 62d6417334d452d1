// Package units converts nutrient results and soil depths to standard units.
//
// Conversion is table driven. Units convert freely within a dimension; charge
// and mass fractions convert into each other through the element's
// equivalent weight. Nothing here fails a conversion: a result that cannot be
// converted keeps its value and unit and produces a warning.
package units

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/JonMunkholm/labnorm/internal/core"
)

var (
	ErrUnknownUnit        = errors.New("unknown unit")
	ErrIncompatibleUnits  = errors.New("incompatible units")
	ErrNoEquivalentWeight = errors.New("no equivalent weight for element")
	ErrNonNumericValue    = errors.New("value is not numeric")
)

// Converter implements core.UnitsConverter, core.DepthStandardizer and
// core.ElementResolver.
type Converter struct {
	standards map[string]Standard
	byTestID  map[string]string
	fillIDs   bool
	logger    *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithStandardUnits overrides the standard unit of the given elements.
func WithStandardUnits(units map[string]string) Option {
	return func(c *Converter) {
		for el, u := range units {
			s := c.standards[el]
			s.Unit = u
			c.standards[el] = s
		}
	}
}

// WithDefaultTestIDs fills in the element's default test id on results that
// carry none.
func WithDefaultTestIDs() Option {
	return func(c *Converter) { c.fillIDs = true }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// New returns a Converter using the built-in standard units.
func New(opts ...Option) *Converter {
	c := &Converter{standards: maps.Clone(standards)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.byTestID = make(map[string]string, len(c.standards))
	for el, s := range c.standards {
		if s.ModusTestID != "" {
			c.byTestID[s.ModusTestID] = el
		}
	}
	return c
}

// ElementForTestID returns the element whose default test id is id.
func (c *Converter) ElementForTestID(id string) (string, bool) {
	el, ok := c.byTestID[id]
	return el, ok
}

var (
	_ core.UnitsConverter    = (*Converter)(nil)
	_ core.DepthStandardizer = (*Converter)(nil)
	_ core.ElementResolver   = (*Converter)(nil)
)

// ConvertUnits converts each result to its element's standard unit.
// Elements without a standard, unitless standards and results without a unit
// pass through unchanged.
func (c *Converter) ConvertUnits(results []core.NutrientResult) ([]core.NutrientResult, []core.UnitConversionWarning) {
	var warnings []core.UnitConversionWarning
	out := make([]core.NutrientResult, len(results))

	for i, nr := range results {
		out[i] = nr
		std, ok := c.standards[nr.Element]
		if !ok {
			continue
		}
		if c.fillIDs && nr.ModusTestID == "" {
			out[i].ModusTestID = std.ModusTestID
		}
		if std.Unit == "" || nr.ValueUnit == "" {
			continue
		}

		converted, err := convertValue(nr.Value, nr.ValueUnit, std.Unit, nr.Element)
		if err != nil {
			c.logger.Warn("unit conversion failed, keeping input",
				"element", nr.Element,
				"from", nr.ValueUnit,
				"to", std.Unit,
				"error", err,
			)
			warnings = append(warnings, core.UnitConversionWarning{
				Element: nr.Element,
				From:    nr.ValueUnit,
				To:      std.Unit,
				Err:     err,
			})
			continue
		}
		out[i].Value = converted
		out[i].ValueUnit = std.Unit
	}
	return out, warnings
}

func convertValue(v core.Value, from, to, element string) (core.Value, error) {
	f, ok := v.Float()
	if !ok {
		// Text such as "<0.1" can only be relabeled.
		if same, err := equivalent(from, to); err != nil {
			return v, err
		} else if !same {
			return v, ErrNonNumericValue
		}
		return v, nil
	}
	out, err := Convert(f, from, to, element)
	if err != nil {
		return v, err
	}
	return core.NumericValue(out), nil
}

func equivalent(from, to string) (bool, error) {
	df, dt, err := lookupPair(from, to)
	if err != nil {
		return false, err
	}
	if df.dim != dt.dim {
		return false, fmt.Errorf("%w: %s and %s", ErrIncompatibleUnits, df.dim, dt.dim)
	}
	return df.factor == dt.factor, nil
}

func lookupPair(from, to string) (unitDef, unitDef, error) {
	cf, ok := canonical(from)
	if !ok {
		return unitDef{}, unitDef{}, fmt.Errorf("%w %q", ErrUnknownUnit, from)
	}
	ct, ok := canonical(to)
	if !ok {
		return unitDef{}, unitDef{}, fmt.Errorf("%w %q", ErrUnknownUnit, to)
	}
	return unitDefs[cf], unitDefs[ct], nil
}

// Convert converts value from one unit to another. element is only consulted
// when converting between charge and mass fractions.
func Convert(value float64, from, to, element string) (float64, error) {
	df, dt, err := lookupPair(from, to)
	if err != nil {
		return 0, err
	}
	base := value * df.factor

	switch {
	case df.dim == dt.dim:
	case df.dim == charge && dt.dim == massFraction:
		w, ok := equivalentWeights[element]
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrNoEquivalentWeight, element)
		}
		// meq/100g to mg/kg
		base = base * w * 10
	case df.dim == massFraction && dt.dim == charge:
		w, ok := equivalentWeights[element]
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrNoEquivalentWeight, element)
		}
		base = base / (w * 10)
	default:
		return 0, fmt.Errorf("%w: %s to %s", ErrIncompatibleUnits, df.dim, dt.dim)
	}
	return base / dt.factor, nil
}
