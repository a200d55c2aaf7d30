package types

/*

	These are the "immutable" core types of Circadia,
	provided for cross-package use (e.g. Plugins) and testing.

	Constructors and the logic that works on these types
	live in the server package. The only methods here are
	the ones needed to print and encode a Series.

*/

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Series identifies which of the two activity curves a sample belongs to.
type Series int

const (
	Estrus    Series = iota // Estrus: the animal is in heat
	NonEstrus               // NonEstrus: baseline comparison day
)

// AllSeries is the fixed drawing order, Estrus first
var AllSeries = []Series{Estrus, NonEstrus}

func (s Series) String() string {
	switch s {
	case Estrus:
		return "Estrus"
	case NonEstrus:
		return "Non-Estrus"
	default:
		return "Unknown"
	}
}

// Slug is the lowercase form used in URLs and keyboard bindings
func (s Series) Slug() string {
	return strings.ToLower(s.String())
}

func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Series) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "estrus":
		*s = Estrus
	case "non-estrus", "nonestrus", "non_estrus":
		*s = NonEstrus
	default:
		return fmt.Errorf("unknown series %q", name)
	}
	return nil
}

// ActivitySample is one minute of one series.
// Index is the minute of the day, [0, 1440).
type ActivitySample struct {
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	Series Series  `json:"series"`
}

// Point is a chart-local position.
// The origin is the centre of the clock face and Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarkerPoint is a down-sampled, individually selectable sample
// carrying the position it was projected to when the chart was built.
type MarkerPoint struct {
	ActivitySample
	Point
}

// VisibilityState records which series are drawn.
// It never changes geometry or selection membership.
type VisibilityState struct {
	Estrus    bool `json:"estrus"`
	NonEstrus bool `json:"nonEstrus"`
}

// StatRow is one label/value line of the statistics table
type StatRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SelectionRecord is what gets written to a journal output
// every time a brush settles on a non-empty selection.
type SelectionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	X0        float64   `json:"x0"`
	Y0        float64   `json:"y0"`
	X1        float64   `json:"x1"`
	Y1        float64   `json:"y1"`
	Count     int       `json:"count"`
	Stats     []StatRow `json:"stats"`
}
