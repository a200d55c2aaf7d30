package circadia

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal is a private prometheus registry for the service itself.
// Each View gets its own, so tests can build as many as they like.
type StatsInternal struct {
	Registry      *prometheus.Registry
	WWWRequests   *prometheus.CounterVec
	BrushUpdates  *prometheus.CounterVec
	Toggles       *prometheus.CounterVec
	SelectionSize prometheus.Histogram
	LoadTimer     prometheus.Histogram
	LoadFailures  prometheus.Counter
}

func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()

	s := &StatsInternal{
		Registry: reg,
		WWWRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "circadia",
			Name:      "http_requests_total",
			Help:      "API requests by status code and method",
		}, []string{"code", "method"}),
		BrushUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "circadia",
			Name:      "brush_updates_total",
			Help:      "Brush changes by source (http, ws, tui) and kind (select, clear)",
		}, []string{"source", "kind"}),
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "circadia",
			Name:      "series_toggles_total",
			Help:      "Visibility toggles by series",
		}, []string{"series"}),
		SelectionSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "circadia",
			Name:      "selection_size",
			Help:      "Markers inside each brush selection",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200, 288},
		}),
		LoadTimer: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "circadia",
			Name:      "data_load_seconds",
			Help:      "Time to fetch and parse both activity series",
			Buckets:   prometheus.DefBuckets,
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circadia",
			Name:      "data_load_failures_total",
			Help:      "Failed loads or reloads of the activity series",
		}),
	}

	reg.MustRegister(
		s.WWWRequests,
		s.BrushUpdates,
		s.Toggles,
		s.SelectionSize,
		s.LoadTimer,
		s.LoadFailures,
		collectors.NewGoCollector(),
	)

	return s
}

// Handler serves this registry only
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry})
}

func (s *StatsInternal) RecWWW(code, method string) {
	s.WWWRequests.WithLabelValues(code, method).Inc()
}

// RecBrush counts a brush change and, for selections, how many markers it caught
func (s *StatsInternal) RecBrush(source string, selected int, cleared bool) {
	if cleared {
		s.BrushUpdates.WithLabelValues(source, "clear").Inc()
		return
	}
	s.BrushUpdates.WithLabelValues(source, "select").Inc()
	s.SelectionSize.Observe(float64(selected))
}

func (s *StatsInternal) RecToggle(series string) {
	s.Toggles.WithLabelValues(series).Inc()
}

func (s *StatsInternal) RecLoadTimer(seconds float64) {
	s.LoadTimer.Observe(seconds)
}

func (s *StatsInternal) RecLoadFailure() {
	s.LoadFailures.Inc()
}
