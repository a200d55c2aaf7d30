package circadia

import (
	"fmt"
	"math"
)

const (
	MinutesPerDay = 1440
	LightsOn      = 720 // first minute of the light period

	// AngleOrigin puts minute 0 at 12 o'clock.
	// Y grows downward, so increasing angles run clockwise on screen.
	AngleOrigin = -math.Pi / 2

	hourLabelOffset = 25 // pixels outside the draw radius
)

// Period is the housing light cycle a minute falls in
type Period int

const (
	Dark Period = iota
	Light
)

func (p Period) String() string {
	if p == Light {
		return "Light Period"
	}
	return "Dark Period"
}

// AngleOfMinute maps a minute of the day onto a full turn of the clock face.
// Every consumer of angles (data, labels, shading, terminal) goes through here.
func AngleOfMinute(i int) float64 {
	return AngleOrigin + (2*math.Pi*float64(i))/MinutesPerDay
}

// MinuteOfAngle is the inverse of AngleOfMinute, for positions picked
// on screen. Any angle is accepted; the result is in [0, MinutesPerDay).
func MinuteOfAngle(a float64) int {
	turn := math.Mod(a-AngleOrigin, 2*math.Pi)
	if turn < 0 {
		turn += 2 * math.Pi
	}
	// the nudge keeps exact minutes from truncating to the one before
	m := int(math.Floor(turn/(2*math.Pi)*MinutesPerDay + 1e-9))
	return m % MinutesPerDay
}

// TimeLabel renders a minute of the day as a 12 hour clock, "H:MM AM"
func TimeLabel(minuteOfDay int) string {
	hh24 := minuteOfDay / 60
	mm := minuteOfDay % 60

	ampm := "AM"
	if hh24 >= 12 {
		ampm = "PM"
	}

	hh12 := hh24 % 12
	if hh12 == 0 {
		hh12 = 12
	}

	return fmt.Sprintf("%d:%02d %s", hh12, mm, ampm)
}

// PeriodOf reports whether a minute is in the dark or light half of the day
func PeriodOf(i int) Period {
	if i < LightsOn {
		return Dark
	}
	return Light
}

// AxisLabel is a time marker drawn outside the clock face
type AxisLabel struct {
	Minute int     `json:"minute"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// HourLabels places the 0, 4, 8, 12, 16 and 20 hour markers just outside radius
func HourLabels(radius float64) []AxisLabel {
	var labels []AxisLabel
	for h := 0; h < 24; h += 4 {
		m := h * 60
		a := AngleOfMinute(m)
		labels = append(labels, AxisLabel{
			Minute: m,
			Text:   TimeLabel(m),
			X:      math.Cos(a) * (radius + hourLabelOffset),
			Y:      math.Sin(a) * (radius + hourLabelOffset),
		})
	}
	return labels
}

// PeriodArc is one shaded half of the clock face.
// Angles are in the same convention as AngleOfMinute.
type PeriodArc struct {
	Period     string  `json:"period"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Radius     float64 `json:"radius"`
}

// PeriodArcs returns the dark and light shading for a clock face of radius
func PeriodArcs(radius float64) []PeriodArc {
	return []PeriodArc{
		{
			Period:     Dark.String(),
			StartAngle: AngleOfMinute(0),
			EndAngle:   AngleOfMinute(LightsOn),
			Radius:     radius,
		},
		{
			Period:     Light.String(),
			StartAngle: AngleOfMinute(LightsOn),
			EndAngle:   AngleOfMinute(MinutesPerDay),
			Radius:     radius,
		},
	}
}
