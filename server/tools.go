package circadia

import (
	"math"
	"strconv"

	"github.com/montanaflynn/stats"
)

// FloatPrecise rounds to a fixed number of decimal places.
// NaN and Inf pass through unchanged.
func FloatPrecise(f float64, places int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r, err := stats.Round(f, places)
	if err != nil {
		return f
	}
	return r
}

// formatActivity is the two decimal form used by tooltips and the stats table
func formatActivity(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatLevel labels grid and axis ticks, whole units only
func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
