package circadia

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	Cs "github.com/maroda/circadia/server"
	Ct "github.com/maroda/circadia/types"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const circleSteps = 48

var ErrUnknownFormat = errors.New("unknown export format")

var (
	colorBackground = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	colorGrid       = drawing.Color{R: 204, G: 204, B: 204, A: 255}
	colorText       = drawing.Color{R: 51, G: 51, B: 51, A: 255}
	colorDark       = drawing.Color{R: 169, G: 169, B: 169, A: 77}
	colorLight      = drawing.Color{R: 255, G: 213, B: 37, A: 77}
	colorHighlight  = drawing.Color{R: 0, G: 0, B: 0, A: 255}
)

// exportFormats maps a file extension to its renderer and content type
var exportFormats = map[string]struct {
	provider    chart.RendererProvider
	contentType string
}{
	"png": {chart.PNG, "image/png"},
	"svg": {chart.SVG, "image/svg+xml"},
}

func seriesDrawColor(s Ct.Series, opacity float64) drawing.Color {
	c := drawing.Color{R: 255, A: 255}
	if s == Ct.NonEstrus {
		c = drawing.Color{B: 255, A: 255}
	}
	c.A = uint8(math.Round(opacity * 255))
	return c
}

// ExportHandler renders the chart as the client currently sees it:
// hidden series are left out and the selection is outlined.
func (v *View) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	format := mux.Vars(r)["format"]
	ef, ok := exportFormats[format]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s", ErrUnknownFormat, format))
		return
	}

	vis, sel := v.State.Snapshot()

	// render to a buffer so a failure can still send a clean error
	var buf bytes.Buffer
	if err := RenderChart(&buf, ef.provider, v.CurrentChart(), vis, sel); err != nil {
		slog.Error("Chart export failed", slog.String("format", format), slog.Any("Error", err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", ef.contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Export write failed", slog.Any("Error", err))
	}
}

// RenderChart draws the clock face with any go-chart renderer.
// Drawing order matches the web view: periods, grid, curves, markers, labels.
func RenderChart(w io.Writer, provider chart.RendererProvider, c *Cs.Chart, vis Ct.VisibilityState, sel Cs.Selection) error {
	if c == nil {
		return ErrNoChart
	}

	r, err := provider(c.Layout.Width, c.Layout.Height)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	geo := c.Geometry()
	cx, cy := c.Layout.Center()
	at := func(p Ct.Point) (int, int) {
		return int(math.Round(p.X + cx)), int(math.Round(p.Y + cy))
	}

	// background
	r.SetFillColor(colorBackground)
	r.MoveTo(0, 0)
	r.LineTo(c.Layout.Width, 0)
	r.LineTo(c.Layout.Width, c.Layout.Height)
	r.LineTo(0, c.Layout.Height)
	r.Close()
	r.Fill()

	for _, arc := range geo.Periods {
		fill := colorLight
		if arc.Period == Cs.Dark.String() {
			fill = colorDark
		}
		drawWedge(r, cx, cy, arc.Radius, arc.StartAngle, arc.EndAngle, fill)
	}

	r.SetStrokeWidth(1)
	r.SetStrokeColor(colorGrid)
	r.SetStrokeDashArray([]float64{2, 2})
	for _, ring := range geo.GridRings {
		tracePolygon(r, cx, cy, ring.Radius)
		r.Stroke()
	}
	r.SetStrokeDashArray(nil)

	for _, curve := range geo.Curves {
		op := Cs.Apply(vis, curve.Series)
		if op.Line == 0 || len(curve.Points) == 0 {
			continue
		}
		r.SetStrokeColor(seriesDrawColor(curve.Series, op.Line))
		r.SetStrokeWidth(2)
		for i, p := range curve.Points {
			x, y := at(p)
			if i == 0 {
				r.MoveTo(x, y)
			} else {
				r.LineTo(x, y)
			}
		}
		// the day wraps, close the loop
		r.Close()
		r.Stroke()
	}

	for _, m := range geo.Markers {
		op := Cs.Apply(vis, m.Series)
		if op.Markers == 0 {
			continue
		}
		x, y := at(m.Point)
		drawDot(r, float64(x), float64(y), Cs.MarkerRadius, seriesDrawColor(m.Series, op.Markers))
		if sel.Contains(m.MarkerPoint) {
			r.SetStrokeColor(colorHighlight)
			r.SetStrokeWidth(1)
			tracePolygon(r, float64(x), float64(y), Cs.MarkerHoverRad)
			r.Stroke()
		}
	}

	if sel.Active && !sel.Rect.IsEmpty() {
		b := Cs.LocalToBrush(c.Layout, sel.Rect)
		r.SetStrokeColor(colorHighlight)
		r.SetStrokeWidth(1)
		r.MoveTo(int(b.X0), int(b.Y0))
		r.LineTo(int(b.X1), int(b.Y0))
		r.LineTo(int(b.X1), int(b.Y1))
		r.LineTo(int(b.X0), int(b.Y1))
		r.Close()
		r.Stroke()
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		// a chart without labels is still a chart
		slog.Warn("No font for export labels", slog.Any("Error", err))
	} else {
		r.SetFont(font)
		r.SetFontColor(colorText)
		r.SetFontSize(12)
		for _, l := range geo.HourLabels {
			x, y := at(Ct.Point{X: l.X, Y: l.Y})
			box := r.MeasureText(l.Text)
			r.Text(l.Text, x-box.Width()/2, y+box.Height()/2)
		}
		for _, t := range geo.EnergyTicks {
			x, y := at(Ct.Point{X: 4, Y: -t.Radius})
			r.Text(t.Label, x, y)
		}
		x, y := at(Ct.Point{X: geo.EnergyLabel.X, Y: geo.EnergyLabel.Y})
		box := r.MeasureText(geo.EnergyLabel.Text)
		r.Text(geo.EnergyLabel.Text, x-box.Width()/2, y)
	}

	return r.Save(w)
}

// tracePolygon is a circle approximated by a polygon path
func tracePolygon(r chart.Renderer, cx, cy, radius float64) {
	for i := 0; i <= circleSteps; i++ {
		angle := 2 * math.Pi * float64(i) / circleSteps
		px := int(math.Round(cx + radius*math.Cos(angle)))
		py := int(math.Round(cy + radius*math.Sin(angle)))
		if i == 0 {
			r.MoveTo(px, py)
		} else {
			r.LineTo(px, py)
		}
	}
	r.Close()
}

func drawDot(r chart.Renderer, cx, cy, radius float64, fill drawing.Color) {
	r.SetFillColor(fill)
	tracePolygon(r, cx, cy, radius)
	r.Fill()
}

// drawWedge fills the sector between two angles, screen orientation
func drawWedge(r chart.Renderer, cx, cy, radius, start, end float64, fill drawing.Color) {
	r.SetFillColor(fill)
	r.MoveTo(int(math.Round(cx)), int(math.Round(cy)))
	steps := circleSteps / 2
	for i := 0; i <= steps; i++ {
		angle := start + (end-start)*float64(i)/float64(steps)
		r.LineTo(int(math.Round(cx+radius*math.Cos(angle))), int(math.Round(cy+radius*math.Sin(angle))))
	}
	r.Close()
	r.Fill()
}
