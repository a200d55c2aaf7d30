package circadia

import (
	"github.com/golang/geo/r2"
	Ct "github.com/maroda/circadia/types"
)

// BrushRect is a brush extent as the brush widget reports it.
// The overlay spans the whole canvas, so these are canvas coordinates.
type BrushRect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// BrushToLocal moves a canvas rectangle into chart-local space.
// Corners may arrive in any order, the result is normalised.
func BrushToLocal(l Layout, b BrushRect) r2.Rect {
	cx, cy := l.Center()
	return r2.RectFromPoints(
		r2.Point{X: b.X0 - cx, Y: b.Y0 - cy},
		r2.Point{X: b.X1 - cx, Y: b.Y1 - cy},
	)
}

// LocalToBrush is the inverse of BrushToLocal
func LocalToBrush(l Layout, r r2.Rect) BrushRect {
	cx, cy := l.Center()
	return BrushRect{
		X0: r.X.Lo + cx,
		Y0: r.Y.Lo + cy,
		X1: r.X.Hi + cx,
		Y1: r.Y.Hi + cy,
	}
}

// Select returns every marker inside rect, both series, edges included.
// It keeps no state: each brush update is answered from scratch.
func Select(markers []Ct.MarkerPoint, rect r2.Rect) []Ct.MarkerPoint {
	if rect.IsEmpty() {
		return nil
	}

	var selected []Ct.MarkerPoint
	for _, m := range markers {
		if rect.ContainsPoint(r2.Point{X: m.X, Y: m.Y}) {
			selected = append(selected, m)
		}
	}
	return selected
}

// Selection is the current brush and what it covers
type Selection struct {
	Active bool
	Rect   r2.Rect
	Points []Ct.MarkerPoint
}

// EmptySelection is the state after the brush is cleared
func EmptySelection() Selection {
	return Selection{Rect: r2.EmptyRect()}
}

// Records strips the positions, leaving what the statistics need
func (s Selection) Records() []Ct.ActivitySample {
	records := make([]Ct.ActivitySample, len(s.Points))
	for i, p := range s.Points {
		records[i] = p.ActivitySample
	}
	return records
}

// Contains reports whether a marker is part of the selection
func (s Selection) Contains(m Ct.MarkerPoint) bool {
	if !s.Active {
		return false
	}
	return s.Rect.ContainsPoint(r2.Point{X: m.X, Y: m.Y})
}
