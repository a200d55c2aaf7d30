package circadia

import (
	"fmt"

	Ct "github.com/maroda/circadia/types"
)

const (
	gridRings      = 5
	energyAxisGap  = 35 // caption distance below the radius
	MarkerRadius   = 3
	MarkerHoverRad = 6
)

// Layout is the drawing canvas.
// The clock face is centred and inset by Margin on the short side.
type Layout struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Margin int `json:"margin"`
}

func DefaultLayout() Layout {
	return Layout{Width: 1000, Height: 1000, Margin: 70}
}

// Radius is the draw radius of the clock face, never negative
func (l Layout) Radius() float64 {
	short := l.Width
	if l.Height < short {
		short = l.Height
	}
	r := float64(short)/2 - float64(l.Margin)
	if r < 0 {
		return 0
	}
	return r
}

// Center is the canvas position of the chart-local origin
func (l Layout) Center() (float64, float64) {
	return float64(l.Width) / 2, float64(l.Height) / 2
}

// Chart is everything derived from one load of the data.
// It is immutable once built: a reload builds a new Chart.
type Chart struct {
	Layout    Layout
	Store     *SeriesStore
	Scale     RadialScale
	Projector Projector
	Markers   []Ct.MarkerPoint
	Curves    map[Ct.Series][]Ct.Point
}

// NewChart builds the shared scale from the store's global maximum
// and projects every curve and marker exactly once.
func NewChart(store *SeriesStore, layout Layout) *Chart {
	rs := NewRadialScale(store.MaxActivity(), layout.Radius())
	p := NewProjector(rs)

	curves := make(map[Ct.Series][]Ct.Point, len(Ct.AllSeries))
	for _, s := range Ct.AllSeries {
		curves[s] = store.Curve(s, p)
	}

	return &Chart{
		Layout:    layout,
		Store:     store,
		Scale:     rs,
		Projector: p,
		Markers:   store.Markers(p),
		Curves:    curves,
	}
}

// Tooltip is the hover text for a marker
func Tooltip(m Ct.MarkerPoint) string {
	return fmt.Sprintf("Type: %s\nTime: %s\nActivity: %s",
		m.Series, TimeLabel(m.Index), formatActivity(m.Value))
}

// LegendEntry is a colour swatch and its caption
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var Legend = []LegendEntry{
	{Label: Ct.Estrus.String(), Color: "red"},
	{Label: Ct.NonEstrus.String(), Color: "blue"},
	{Label: Dark.String(), Color: "rgba(169, 169, 169, 0.3)"},
	{Label: Light.String(), Color: "rgba(255, 213, 37, 0.3)"},
}

// SeriesColor is the line and marker colour for a series
func SeriesColor(s Ct.Series) string {
	if s == Ct.NonEstrus {
		return "blue"
	}
	return "red"
}

// MarkerGeometry is a marker as the render layer consumes it
type MarkerGeometry struct {
	Ct.MarkerPoint
	Tooltip string `json:"tooltip"`
}

// CurveGeometry is one series line
type CurveGeometry struct {
	Series Ct.Series  `json:"series"`
	Color  string     `json:"color"`
	Points []Ct.Point `json:"points"`
}

// Geometry is the full render description of a chart
type Geometry struct {
	Layout      Layout           `json:"layout"`
	Radius      float64          `json:"radius"`
	MaxActivity float64          `json:"maxActivity"`
	Periods     []PeriodArc      `json:"periods"`
	GridRings   []Tick           `json:"gridRings"`
	EnergyTicks []Tick           `json:"energyTicks"`
	EnergyLabel AxisLabel        `json:"energyLabel"`
	HourLabels  []AxisLabel      `json:"hourLabels"`
	Curves      []CurveGeometry  `json:"curves"`
	Markers     []MarkerGeometry `json:"markers"`
	Legend      []LegendEntry    `json:"legend"`
}

// Geometry collects every drawable piece of the chart
func (c *Chart) Geometry() Geometry {
	radius := c.Layout.Radius()

	// Rings skip level 0, the axis keeps it
	ticks := c.Scale.Ticks(gridRings)
	var rings []Tick
	if len(ticks) > 1 {
		rings = ticks[1:]
	}

	var curves []CurveGeometry
	for _, s := range Ct.AllSeries {
		curves = append(curves, CurveGeometry{
			Series: s,
			Color:  SeriesColor(s),
			Points: c.Curves[s],
		})
	}

	markers := make([]MarkerGeometry, len(c.Markers))
	for i, m := range c.Markers {
		markers[i] = MarkerGeometry{MarkerPoint: m, Tooltip: Tooltip(m)}
	}

	return Geometry{
		Layout:      c.Layout,
		Radius:      radius,
		MaxActivity: c.Scale.Max,
		Periods:     PeriodArcs(radius),
		GridRings:   rings,
		EnergyTicks: ticks,
		EnergyLabel: AxisLabel{Text: "Energy Level", X: 0, Y: radius + energyAxisGap},
		HourLabels:  HourLabels(radius),
		Curves:      curves,
		Markers:     markers,
		Legend:      Legend,
	}
}
