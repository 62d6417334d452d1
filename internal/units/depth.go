package units

import (
	"math"

	"github.com/JonMunkholm/labnorm/internal/core"
)

// DepthUnit is the unit every standardized depth is reported in.
const DepthUnit = "cm"

// StandardizeDepths converts depth refs to whole centimeters. A ref whose
// unit is not a length keeps its input values.
func (c *Converter) StandardizeDepths(refs []core.DepthRef) []core.DepthRef {
	if len(refs) == 0 {
		return refs
	}
	out := make([]core.DepthRef, len(refs))
	for i, ref := range refs {
		d, err := standardizeDepth(ref.Depth)
		if err != nil {
			c.logger.Warn("standardizing depth failed, keeping input",
				"depth", ref.Name,
				"unit", ref.DepthUnit,
				"error", err,
			)
			out[i] = ref
			continue
		}
		out[i] = core.DepthRef{DepthID: ref.DepthID, Depth: d}
	}
	return out
}

func standardizeDepth(d core.Depth) (core.Depth, error) {
	conv := func(v float64) (float64, error) {
		out, err := Convert(v, d.DepthUnit, DepthUnit, "")
		if err != nil {
			return 0, err
		}
		return math.Round(out), nil
	}

	start, err := conv(d.StartingDepth)
	if err != nil {
		return d, err
	}
	end, err := conv(d.EndingDepth)
	if err != nil {
		return d, err
	}
	column, err := conv(d.ColumnDepth)
	if err != nil {
		return d, err
	}

	d.StartingDepth = start
	d.EndingDepth = end
	d.ColumnDepth = column
	d.DepthUnit = DepthUnit
	return d, nil
}
