package labs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/labnorm/internal/core"
)

// cellText renders a raw cell the way lab exports write it.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}

// alWestSampleTypes maps the A&L Western TYPE column to a lab type.
var alWestSampleTypes = map[string]core.LabType{
	"4": core.LabPlant,
	"5": core.LabSoil,
}

// alWestType reads the TYPE column. Unknown codes defer to the config type.
func alWestType(row core.Row) core.LabType {
	return alWestSampleTypes[cellText(row["TYPE"])]
}

// depthRangeColumn finds a range such as "0 to 20" in the first column, in
// name order, whose name starts with "Depth". Values are in cm.
func depthRangeColumn(row core.Row) (core.DepthHint, bool) {
	var cols []string
	for col := range row {
		if strings.HasPrefix(col, "Depth") {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	for _, col := range cols {
		s := cellText(row[col])
		start, end, ok := strings.Cut(s, " to ")
		if !ok {
			return core.DepthHint{}, false
		}
		top, err1 := strconv.ParseFloat(strings.TrimSpace(start), 64)
		bottom, err2 := strconv.ParseFloat(strings.TrimSpace(end), 64)
		if err1 != nil || err2 != nil {
			return core.DepthHint{}, false
		}
		return core.DepthHint{
			Name:          s,
			DepthUnit:     "cm",
			StartingDepth: core.Float(top),
			EndingDepth:   core.Float(bottom),
			ColumnDepth:   core.Float(bottom - top),
		}, true
	}
	return core.DepthHint{}, false
}
