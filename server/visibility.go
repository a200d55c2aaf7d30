package circadia

import (
	"errors"
	"fmt"
	"strings"

	Ct "github.com/maroda/circadia/types"
)

const (
	LineOpacity   = 1.0
	MarkerOpacity = 0.7
)

var ErrUnknownSeries = errors.New("unknown series")

// NewVisibility returns the initial state, both series shown
func NewVisibility() Ct.VisibilityState {
	return Ct.VisibilityState{Estrus: true, NonEstrus: true}
}

// Visible reads one series out of the state
func Visible(vs Ct.VisibilityState, s Ct.Series) bool {
	if s == Ct.NonEstrus {
		return vs.NonEstrus
	}
	return vs.Estrus
}

// Toggle flips one series and returns the new state.
// The input is a value, so callers decide where the new state is kept.
func Toggle(vs Ct.VisibilityState, s Ct.Series) Ct.VisibilityState {
	switch s {
	case Ct.Estrus:
		vs.Estrus = !vs.Estrus
	case Ct.NonEstrus:
		vs.NonEstrus = !vs.NonEstrus
	}
	return vs
}

// Opacity is what the render layer applies to a series' elements
type Opacity struct {
	Series  Ct.Series `json:"series"`
	Line    float64   `json:"line"`
	Markers float64   `json:"markers"`
}

// Apply translates visibility into element opacity.
// Hidden elements stay in the scene, they are only transparent.
func Apply(vs Ct.VisibilityState, s Ct.Series) Opacity {
	if !Visible(vs, s) {
		return Opacity{Series: s}
	}
	return Opacity{Series: s, Line: LineOpacity, Markers: MarkerOpacity}
}

// ApplyAll returns the opacity of both series in drawing order
func ApplyAll(vs Ct.VisibilityState) []Opacity {
	out := make([]Opacity, 0, len(Ct.AllSeries))
	for _, s := range Ct.AllSeries {
		out = append(out, Apply(vs, s))
	}
	return out
}

// ParseSeries accepts the slugs used by URLs, the websocket and the terminal
func ParseSeries(name string) (Ct.Series, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "estrus", "e":
		return Ct.Estrus, nil
	case "non-estrus", "nonestrus", "non_estrus", "n":
		return Ct.NonEstrus, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
	}
}
