package circadia

import (
	"math"

	Ct "github.com/maroda/circadia/types"
)

// RadialScale maps activity in [0, Max] linearly onto [0, Radius] pixels.
// It is fixed when the chart is built and shared by both series.
type RadialScale struct {
	Max    float64 // largest activity across both full series
	Radius float64 // draw radius in pixels
}

func NewRadialScale(max, radius float64) RadialScale {
	return RadialScale{Max: max, Radius: radius}
}

// Scale returns the pixel radius for an activity value.
// A zero (or broken) maximum collapses everything to the centre instead of NaN.
func (rs RadialScale) Scale(v float64) float64 {
	if rs.Max <= 0 || math.IsNaN(rs.Max) || math.IsInf(rs.Max, 0) {
		return 0
	}
	return v / rs.Max * rs.Radius
}

// Tick is one reference level of the scale
type Tick struct {
	Level  float64 `json:"level"`
	Radius float64 `json:"radius"`
	Label  string  `json:"label"`
}

// Ticks splits [0, Max] into n steps and returns the n+1 levels, 0 first.
// Levels are reported to two places, radii are exact.
func (rs RadialScale) Ticks(n int) []Tick {
	if n <= 0 {
		return nil
	}
	ticks := make([]Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		level := float64(i) / float64(n) * rs.Max
		ticks = append(ticks, Tick{
			Level:  FloatPrecise(level, 2),
			Radius: rs.Scale(level),
			Label:  formatLevel(level),
		})
	}
	return ticks
}

// Projector turns (minute, activity) pairs into chart-local points
type Projector struct {
	Scale RadialScale
}

func NewProjector(rs RadialScale) Projector {
	return Projector{Scale: rs}
}

// Project places a sample on the clock face.
// The radius grows with value, the angle follows the minute.
func (p Projector) Project(index int, value float64) Ct.Point {
	a := AngleOfMinute(index)
	r := p.Scale.Scale(value)
	return Ct.Point{
		X: math.Cos(a) * r,
		Y: math.Sin(a) * r,
	}
}
