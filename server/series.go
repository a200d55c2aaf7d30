package circadia

import (
	"log/slog"

	Ct "github.com/maroda/circadia/types"
)

const (
	DefaultSampleRate = 10 // one marker per ten minutes, 144 per series
)

// SeriesStore holds the two loaded activity curves.
// Values are kept exactly as loaded, index == minute of day.
type SeriesStore struct {
	data       map[Ct.Series][]float64
	sampleRate int
	max        float64
}

// NewSeriesStore takes ownership of both value slices.
// A short or long series is tolerated, it is only logged.
func NewSeriesStore(estrus, nonEstrus []float64, sampleRate int) *SeriesStore {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	ss := &SeriesStore{
		data: map[Ct.Series][]float64{
			Ct.Estrus:    estrus,
			Ct.NonEstrus: nonEstrus,
		},
		sampleRate: sampleRate,
	}

	for _, s := range Ct.AllSeries {
		if n := len(ss.data[s]); n != MinutesPerDay {
			slog.Warn("Series does not cover one full day",
				slog.String("series", s.String()),
				slog.Int("samples", n),
				slog.Int("expected", MinutesPerDay))
		}
		for _, v := range ss.data[s] {
			if v > ss.max {
				ss.max = v
			}
		}
	}

	return ss
}

// MaxActivity is the largest value across both full series, not just the markers
func (ss *SeriesStore) MaxActivity() float64 {
	return ss.max
}

func (ss *SeriesStore) SampleRate() int {
	return ss.sampleRate
}

// Len returns the number of samples loaded for a series
func (ss *SeriesStore) Len(s Ct.Series) int {
	return len(ss.data[s])
}

// Samples returns the full-resolution records for one series
func (ss *SeriesStore) Samples(s Ct.Series) []Ct.ActivitySample {
	values := ss.data[s]
	samples := make([]Ct.ActivitySample, len(values))
	for i, v := range values {
		samples[i] = Ct.ActivitySample{Index: i, Value: v, Series: s}
	}
	return samples
}

// Records is every full-resolution sample of both series, Estrus first
func (ss *SeriesStore) Records() []Ct.ActivitySample {
	var recs []Ct.ActivitySample
	for _, s := range Ct.AllSeries {
		recs = append(recs, ss.Samples(s)...)
	}
	return recs
}

// Sampled returns every sampleRate-th record of one series, index 0 included
func (ss *SeriesStore) Sampled(s Ct.Series) []Ct.ActivitySample {
	values := ss.data[s]
	sampled := make([]Ct.ActivitySample, 0, len(values)/ss.sampleRate+1)
	for i := 0; i < len(values); i += ss.sampleRate {
		sampled = append(sampled, Ct.ActivitySample{Index: i, Value: values[i], Series: s})
	}
	return sampled
}

// Markers positions the down-sampled records of both series, Estrus first
func (ss *SeriesStore) Markers(p Projector) []Ct.MarkerPoint {
	var markers []Ct.MarkerPoint
	for _, s := range Ct.AllSeries {
		for _, rec := range ss.Sampled(s) {
			markers = append(markers, Ct.MarkerPoint{
				ActivitySample: rec,
				Point:          p.Project(rec.Index, rec.Value),
			})
		}
	}
	return markers
}

// Curve projects every sample of a series, in minute order, for the line path
func (ss *SeriesStore) Curve(s Ct.Series, p Projector) []Ct.Point {
	values := ss.data[s]
	curve := make([]Ct.Point, len(values))
	for i, v := range values {
		curve[i] = p.Project(i, v)
	}
	return curve
}
